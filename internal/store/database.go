package store

import (
	"database/sql"

	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/migrations"
)

// DB is an open SQLite database.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	if err := migrations.Migrate(db.DB); err != nil {
		db.logger.Err(err).Str("func", "DB.Migrate").Msg("error applying migrations")
		return err
	}
	db.logger.Debug().Str("func", "DB.Migrate").Msg("migrations applied")
	return nil
}
