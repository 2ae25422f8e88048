package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTokenRepo(db), mock
}

func TestValidateRefreshReturnsUser(t *testing.T) {
	r, mock := newTokenRepo(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at").
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))

	userID, err := r.ValidateRefresh(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
}

func TestValidateRefreshRejectsRevoked(t *testing.T) {
	r, mock := newTokenRepo(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at").
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err := r.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestValidateRefreshRejectsExpired(t *testing.T) {
	r, mock := newTokenRepo(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at").
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().UTC().Add(-time.Minute), nil))

	_, err := r.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeAllForUserTargetsOnlyActiveTokens(t *testing.T) {
	r, mock := newTokenRepo(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=NOW\(\) WHERE user_id=\? AND revoked_at IS NULL`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, r.RevokeAllForUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
