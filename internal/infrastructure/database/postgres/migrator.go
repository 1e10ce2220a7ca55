package postgres

import (
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
)

// Migrator applies schema migrations from a file source.
type Migrator struct {
	conn   *Connection
	path   string
	logger logging.Logger
}

// NewMigrator builds a Migrator reading .sql migration files from path.
func NewMigrator(conn *Connection, path string, log logging.Logger) *Migrator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Migrator{conn: conn, path: path, logger: log}
}

func (m *Migrator) migrate() (*migrate.Migrate, error) {
	driver, err := migratepg.WithInstance(m.conn.DB(), &migratepg.Config{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "creating migration driver")
	}
	return migrate.NewWithDatabaseInstance("file://"+m.path, "postgres", driver)
}

// Up applies all pending migrations.  An already-current schema is not an
// error.
func (m *Migrator) Up() error {
	mg, err := m.migrate()
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "applying migrations")
	}
	version, dirty, _ := mg.Version()
	m.logger.Info("schema migrations applied",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty))
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down() error {
	mg, err := m.migrate()
	if err != nil {
		return err
	}
	if err := mg.Steps(-1); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "rolling back migration")
	}
	return nil
}
