package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrCredentialsNotSaved is returned when an upsert of a credential value
	// completes without error but affects no rows.
	ErrCredentialsNotSaved = errors.New("credentials were not saved")

	// ErrCredentialsUnreadable is returned when persisted values exist but
	// cannot be opened, e.g. after APP_STORAGE_KEY changed.
	ErrCredentialsUnreadable = errors.New("persisted credentials cannot be read")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to executing statement")
	ErrScanningRows         = errors.New("failed to scan credential rows")
)
