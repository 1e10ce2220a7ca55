package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/harborwise/fleetsurvey/internal/domain/certificate"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/database/postgres"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

const certColumns = `id, ship_id, cert_name, cert_type, issuer,
	issue_date, valid_date, next_survey, next_survey_type, document_key,
	created_at, updated_at`

type certificateRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewCertificateRepository builds the PostgreSQL certificate repository.
func NewCertificateRepository(conn *postgres.Connection, log logging.Logger) certificate.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &certificateRepository{db: conn.DB(), logger: log.Named("certificate_repo")}
}

func (r *certificateRepository) Create(ctx context.Context, c *certificate.Certificate) error {
	query := `
		INSERT INTO certificates (` + certColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID.String(), c.ShipID.String(), c.CertName, string(c.CertType), c.Issuer,
		nullTime(c.IssueDate), nullTime(c.ValidDate),
		nullString(c.NextSurvey), nullString(c.NextSurveyType), nullString(c.DocumentKey),
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "violates foreign key") {
			return errors.Newf(errors.ErrCodeShipNotFound, "ship %s not found", c.ShipID)
		}
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.New(errors.ErrCodeConflict, "certificate already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "inserting certificate")
	}
	return nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id common.ID) (*certificate.Certificate, error) {
	query := `SELECT ` + certColumns + ` FROM certificates WHERE id = $1`
	c, err := scanCertificate(r.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrCodeCertificateNotFound, "certificate %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "querying certificate")
	}
	return c, nil
}

func (r *certificateRepository) FindByShip(ctx context.Context, shipID common.ID) ([]*certificate.Certificate, error) {
	query := `SELECT ` + certColumns + ` FROM certificates WHERE ship_id = $1 ORDER BY cert_name`
	rows, err := r.db.QueryContext(ctx, query, shipID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "querying certificates by ship")
	}
	defer rows.Close()

	var certs []*certificate.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scanning certificate row")
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "iterating certificate rows")
	}
	return certs, nil
}

func (r *certificateRepository) UpdateSchedule(ctx context.Context, id common.ID, patch certificate.SchedulePatch) error {
	query := `
		UPDATE certificates
		SET next_survey = $1, next_survey_type = $2, updated_at = $3
		WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query,
		nullString(patch.NextSurvey), nullString(patch.NextSurveyType), time.Now().UTC(), id.String())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "updating certificate schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Newf(errors.ErrCodeCertificateNotFound, "certificate %s not found", id)
	}
	return nil
}

func (r *certificateRepository) SetDocumentKey(ctx context.Context, id common.ID, key string) error {
	query := `UPDATE certificates SET document_key = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, nullString(key), time.Now().UTC(), id.String())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "recording document key")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Newf(errors.ErrCodeCertificateNotFound, "certificate %s not found", id)
	}
	return nil
}

func scanCertificate(row rowScanner) (*certificate.Certificate, error) {
	var (
		c              certificate.Certificate
		id, shipID     string
		certType       string
		issueDate      sql.NullTime
		validDate      sql.NullTime
		nextSurvey     sql.NullString
		nextSurveyType sql.NullString
		documentKey    sql.NullString
	)
	err := row.Scan(&id, &shipID, &c.CertName, &certType, &c.Issuer,
		&issueDate, &validDate, &nextSurvey, &nextSurveyType, &documentKey,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = common.ID(id)
	c.ShipID = common.ID(shipID)
	c.CertType = certificate.CertType(certType)
	c.IssueDate = timePtr(issueDate)
	c.ValidDate = timePtr(validDate)
	c.NextSurvey = nextSurvey.String
	c.NextSurveyType = nextSurveyType.String
	c.DocumentKey = documentKey.String
	return &c, nil
}
