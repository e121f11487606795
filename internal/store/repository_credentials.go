package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/apk-portal/internal/crypto"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/models"
)

type credentialRepository struct {
	db     *DB
	sealer crypto.TokenSealer
	logger *logger.Logger

	now func() time.Time
}

// NewCredentialRepository returns a [CredentialStore] backed by db.
func NewCredentialRepository(db *DB, sealer crypto.TokenSealer, logger *logger.Logger) CredentialStore {
	return &credentialRepository{
		db:     db,
		sealer: sealer,
		logger: logger,
		now:    time.Now,
	}
}

// Get implements [CredentialStore].
func (r *credentialRepository) Get(ctx context.Context) (models.Credentials, error) {
	log := logger.FromContextOr(ctx, r.logger)

	query, args, err := selectValuesQuery(models.StorageKeys)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "credentialRepository.Get").
			Msg("failed to query persisted credentials")
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	values := make(map[string]string, len(models.StorageKeys))
	for rows.Next() {
		var name, sealed string
		if err = rows.Scan(&name, &sealed); err != nil {
			return models.Credentials{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		value, openErr := r.sealer.Open(name, sealed)
		if openErr != nil {
			log.Warn().Err(openErr).
				Str("func", "credentialRepository.Get").
				Str("name", name).
				Msg("persisted credential cannot be opened")
			return models.Credentials{}, fmt.Errorf("%w: %w", ErrCredentialsUnreadable, openErr)
		}
		values[name] = value
	}
	if err = rows.Err(); err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return models.CredentialsFromValues(values), nil
}

// Set implements [CredentialStore]. All three keys change in one
// transaction, so a crash never leaves a mixed pair behind.
func (r *credentialRepository) Set(ctx context.Context, creds models.Credentials) error {
	log := logger.FromContextOr(ctx, r.logger)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := r.now().UTC()
	values := creds.Values()
	var empty []string
	for _, name := range models.StorageKeys {
		value := values[name]
		if value == "" {
			empty = append(empty, name)
			continue
		}

		if err = r.upsert(ctx, tx, name, value, now); err != nil {
			log.Err(err).
				Str("func", "credentialRepository.Set").
				Str("name", name).
				Msg("failed to persist credential value")
			return err
		}
	}

	if len(empty) > 0 {
		if err = r.delete(ctx, tx, empty); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// Clear implements [CredentialStore].
func (r *credentialRepository) Clear(ctx context.Context) error {
	query, args, err := deleteValuesQuery(models.StorageKeys)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContextOr(ctx, r.logger).Err(err).
			Str("func", "credentialRepository.Clear").
			Msg("failed to clear persisted credentials")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *credentialRepository) upsert(ctx context.Context, tx *sql.Tx, name, value string, at time.Time) error {
	sealed, err := r.sealer.Seal(name, value)
	if err != nil {
		return fmt.Errorf("seal %s: %w", name, err)
	}

	query, args, err := upsertValueQuery(name, sealed, at)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrCredentialsNotSaved, name)
	}
	return nil
}

func (r *credentialRepository) delete(ctx context.Context, tx *sql.Tx, names []string) error {
	query, args, err := deleteValuesQuery(names)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
