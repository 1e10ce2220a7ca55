// Package repositories contains the PostgreSQL implementations of the
// domain persistence contracts.
package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/ship"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

const shipColumns = `id, name, imo_number, class_society, flag, built_year,
	anniversary_day, anniversary_month, anniversary_source,
	cycle_from, cycle_to, cycle_type, cycle_intermediate_required,
	next_docking, last_docking, last_intermediate_survey,
	created_at, updated_at`

type shipRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewShipRepository builds the PostgreSQL ship repository.
func NewShipRepository(conn *postgres.Connection, log logging.Logger) ship.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &shipRepository{db: conn.DB(), logger: log.Named("ship_repo")}
}

func (r *shipRepository) Create(ctx context.Context, s *ship.Ship) error {
	query := `
		INSERT INTO ships (` + shipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	var (
		annDay, annMonth sql.NullInt32
		annSource        sql.NullString
		cycleFrom        sql.NullTime
		cycleTo          sql.NullTime
		cycleType        sql.NullString
		cycleIntermed    sql.NullBool
	)
	if s.AnniversaryDate != nil {
		annDay = sql.NullInt32{Int32: int32(s.AnniversaryDate.Day), Valid: true}
		annMonth = sql.NullInt32{Int32: int32(s.AnniversaryDate.Month), Valid: true}
		annSource = sql.NullString{String: s.AnniversaryDate.SourceCertificateType, Valid: true}
	}
	if s.SpecialSurveyCycle != nil {
		cycleFrom = sql.NullTime{Time: s.SpecialSurveyCycle.FromDate, Valid: true}
		cycleTo = sql.NullTime{Time: s.SpecialSurveyCycle.ToDate, Valid: true}
		cycleType = sql.NullString{String: s.SpecialSurveyCycle.CycleType, Valid: true}
		cycleIntermed = sql.NullBool{Bool: s.SpecialSurveyCycle.IntermediateRequired, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.Name, s.IMONumber, s.ClassSociety, s.Flag, nullInt(s.BuiltYear),
		annDay, annMonth, annSource,
		cycleFrom, cycleTo, cycleType, cycleIntermed,
		nullTime(s.NextDocking), nullTime(s.LastDocking), nullTime(s.LastIntermediateSurvey),
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.New(errors.ErrCodeConflict, "ship already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "inserting ship")
	}
	return nil
}

func (r *shipRepository) GetByID(ctx context.Context, id common.ID) (*ship.Ship, error) {
	query := `SELECT ` + shipColumns + ` FROM ships WHERE id = $1`
	s, err := scanShip(r.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeShipNotFound, "ship %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "querying ship")
	}
	return s, nil
}

func (r *shipRepository) List(ctx context.Context, opts ...ship.ListOption) ([]*ship.Ship, int64, error) {
	options := ship.ApplyListOptions(opts...)

	where := ""
	args := []interface{}{}
	if options.ClassSociety != "" {
		where = " WHERE class_society = $1"
		args = append(args, options.ClassSociety)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ships"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "counting ships")
	}

	query := `SELECT ` + shipColumns + ` FROM ships` + where +
		` ORDER BY name LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, options.Limit, options.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "listing ships")
	}
	defer rows.Close()

	var ships []*ship.Ship
	for rows.Next() {
		s, err := scanShip(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "scanning ship row")
		}
		ships = append(ships, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterating ship rows")
	}
	return ships, total, nil
}

func (r *shipRepository) UpdateSchedule(ctx context.Context, id common.ID, patch ship.SchedulePatch) error {
	if patch.Empty() {
		return nil
	}

	set := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}

	if patch.SetAnniversaryDate {
		var day, month sql.NullInt32
		var source sql.NullString
		if patch.AnniversaryDate != nil {
			day = sql.NullInt32{Int32: int32(patch.AnniversaryDate.Day), Valid: true}
			month = sql.NullInt32{Int32: int32(patch.AnniversaryDate.Month), Valid: true}
			source = sql.NullString{String: patch.AnniversaryDate.SourceCertificateType, Valid: true}
		}
		set = append(set,
			"anniversary_day = "+placeholder(len(args)+1),
			"anniversary_month = "+placeholder(len(args)+2),
			"anniversary_source = "+placeholder(len(args)+3))
		args = append(args, day, month, source)
	}
	if patch.SetSpecialSurveyCycle {
		var from, to sql.NullTime
		var cycleType sql.NullString
		var intermed sql.NullBool
		if patch.SpecialSurveyCycle != nil {
			from = sql.NullTime{Time: patch.SpecialSurveyCycle.FromDate, Valid: true}
			to = sql.NullTime{Time: patch.SpecialSurveyCycle.ToDate, Valid: true}
			cycleType = sql.NullString{String: patch.SpecialSurveyCycle.CycleType, Valid: true}
			intermed = sql.NullBool{Bool: patch.SpecialSurveyCycle.IntermediateRequired, Valid: true}
		}
		set = append(set,
			"cycle_from = "+placeholder(len(args)+1),
			"cycle_to = "+placeholder(len(args)+2),
			"cycle_type = "+placeholder(len(args)+3),
			"cycle_intermediate_required = "+placeholder(len(args)+4))
		args = append(args, from, to, cycleType, intermed)
	}
	if patch.SetNextDocking {
		set = append(set, "next_docking = "+placeholder(len(args)+1))
		args = append(args, nullTime(patch.NextDocking))
	}

	query := "UPDATE ships SET " + strings.Join(set, ", ") + " WHERE id = " + placeholder(len(args)+1)
	args = append(args, id.String())

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "updating ship schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Newf(errors.ErrCodeShipNotFound, "ship %s not found", id)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShip(row rowScanner) (*ship.Ship, error) {
	var (
		s                ship.Ship
		id               string
		builtYear        sql.NullInt32
		annDay, annMonth sql.NullInt32
		annSource        sql.NullString
		cycleFrom        sql.NullTime
		cycleTo          sql.NullTime
		cycleType        sql.NullString
		cycleIntermed    sql.NullBool
		nextDocking      sql.NullTime
		lastDocking      sql.NullTime
		lastIntermediate sql.NullTime
	)
	err := row.Scan(&id, &s.Name, &s.IMONumber, &s.ClassSociety, &s.Flag, &builtYear,
		&annDay, &annMonth, &annSource,
		&cycleFrom, &cycleTo, &cycleType, &cycleIntermed,
		&nextDocking, &lastDocking, &lastIntermediate,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = common.ID(id)
	if builtYear.Valid {
		year := int(builtYear.Int32)
		s.BuiltYear = &year
	}
	if annDay.Valid && annMonth.Valid {
		s.AnniversaryDate = &ship.AnniversaryDate{
			Day:                   int(annDay.Int32),
			Month:                 int(annMonth.Int32),
			SourceCertificateType: annSource.String,
		}
	}
	if cycleFrom.Valid && cycleTo.Valid {
		s.SpecialSurveyCycle = &ship.SpecialSurveyCycle{
			FromDate:             cycleFrom.Time.UTC(),
			ToDate:               cycleTo.Time.UTC(),
			CycleType:            cycleType.String,
			IntermediateRequired: cycleIntermed.Bool,
		}
	}
	s.NextDocking = timePtr(nextDocking)
	s.LastDocking = timePtr(lastDocking)
	s.LastIntermediateSurvey = timePtr(lastIntermediate)
	return &s, nil
}
