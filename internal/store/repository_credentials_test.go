package store

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/apk-portal/internal/crypto"
	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestCredentialRepo(t *testing.T, secret string) (*credentialRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sealer, err := crypto.NewTokenSealer(secret)
	require.NoError(t, err)

	l := logger.Nop()
	repo := NewCredentialRepository(&DB{DB: db, logger: l}, sealer, l).(*credentialRepository)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

// sealedArg matches a value sealed for name that opens to plain.
type sealedArg struct {
	sealer crypto.TokenSealer
	name   string
	plain  string
}

func (a sealedArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || s == a.plain {
		return false
	}
	opened, err := a.sealer.Open(a.name, s)
	return err == nil && opened == a.plain
}

func TestCredentialRepository_Get(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	rows := sqlmock.NewRows([]string{"name", "value"}).
		AddRow(models.StorageKeyAccessToken, "A1").
		AddRow(models.StorageKeyRefreshToken, "R1").
		AddRow(models.StorageKeyUsername, "alice")
	mock.ExpectQuery("SELECT name, value FROM credentials WHERE name IN").
		WithArgs(models.StorageKeyAccessToken, models.StorageKeyRefreshToken, models.StorageKeyUsername).
		WillReturnRows(rows)

	creds, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"}, creds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Get_Empty(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectQuery("SELECT name, value FROM credentials").
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}))

	creds, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.True(t, creds.IsEmpty())
}

func TestCredentialRepository_Get_QueryError(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectQuery("SELECT name, value FROM credentials").
		WillReturnError(errors.New("database is locked"))

	_, err := repo.Get(context.Background())

	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestCredentialRepository_Get_RowError(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	rows := sqlmock.NewRows([]string{"name", "value"}).
		AddRow(models.StorageKeyAccessToken, "A1").
		RowError(0, errors.New("corrupt page"))
	mock.ExpectQuery("SELECT name, value FROM credentials").WillReturnRows(rows)

	_, err := repo.Get(context.Background())

	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestCredentialRepository_Get_SealedWithOtherSecret(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "current-secret")
	old, err := crypto.NewTokenSealer("old-secret")
	require.NoError(t, err)
	sealed, err := old.Seal(models.StorageKeyAccessToken, "A1")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT name, value FROM credentials").
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).AddRow(models.StorageKeyAccessToken, sealed))

	creds, err := repo.Get(context.Background())

	assert.ErrorIs(t, err, ErrCredentialsUnreadable)
	assert.ErrorIs(t, err, crypto.ErrCannotOpen)
	assert.True(t, creds.IsEmpty())
}

func TestCredentialRepository_Set(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")
	creds := models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyAccessToken, "A1", fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyRefreshToken, "R1", fixedNow).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyUsername, "alice", fixedNow).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	err := repo.Set(context.Background(), creds)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Set_RemovesEmptyFields(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyAccessToken, "A1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM credentials WHERE name IN").
		WithArgs(models.StorageKeyRefreshToken, models.StorageKeyUsername).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Set_SealsValues(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "storage-secret")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyAccessToken, sealedArg{repo.sealer, models.StorageKeyAccessToken, "A1"}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyRefreshToken, sealedArg{repo.sealer, models.StorageKeyRefreshToken, "R1"}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyUsername, sealedArg{repo.sealer, models.StorageKeyUsername, "alice"}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Set_ExecErrorRollsBack(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").
		WithArgs(models.StorageKeyAccessToken, "A1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO credentials").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"})

	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Set_NoRowsAffected(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "alice"})

	assert.ErrorIs(t, err, ErrCredentialsNotSaved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Set_BeginError(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1"})

	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestCredentialRepository_Set_CommitError(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO credentials").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM credentials").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := repo.Set(context.Background(), models.Credentials{AccessToken: "A1"})

	assert.ErrorIs(t, err, ErrCommitingTransaction)
}

func TestCredentialRepository_Clear(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectExec("DELETE FROM credentials WHERE name IN").
		WithArgs(models.StorageKeyAccessToken, models.StorageKeyRefreshToken, models.StorageKeyUsername).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_LogsWithoutContextLogger(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")
	var buf bytes.Buffer
	repo.logger = &logger.Logger{Logger: zerolog.New(&buf)}

	mock.ExpectExec("DELETE FROM credentials").WillReturnError(errors.New("readonly database"))

	require.Error(t, repo.Clear(context.Background()))
	assert.Contains(t, buf.String(), "failed to clear persisted credentials")
	assert.Contains(t, buf.String(), "readonly database")
}

func TestCredentialRepository_Clear_Error(t *testing.T) {
	repo, mock := newTestCredentialRepo(t, "")

	mock.ExpectExec("DELETE FROM credentials").WillReturnError(errors.New("readonly database"))

	err := repo.Clear(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.True(t, strings.Contains(err.Error(), "readonly database"))
}
