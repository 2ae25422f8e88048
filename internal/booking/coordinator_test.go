package booking

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-booking/internal/allocator"
	"github.com/iliyamo/train-seat-booking/internal/repository"
)

func newTestCoordinator(t *testing.T) (*Coordinator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := NewCoordinator(repository.NewSeatRepo(db), DefaultLayout)
	c.newRef = func() string { return "test-ref" }
	return c, mock
}

func freeSeatRows(numbers ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"seat_number", "row_num"})
	for _, n := range numbers {
		rows.AddRow(n, (n-1)/7+1)
	}
	return rows
}

func TestBookClaimsExactlyTheSelectedSeats(t *testing.T) {
	c, mock := newTestCoordinator(t)

	mock.ExpectQuery("SELECT seat_number, row_num").
		WillReturnRows(freeSeatRows(1, 2, 3, 4, 5))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	b, err := c.Book(context.Background(), 42, 3)
	require.NoError(t, err)
	assert.Equal(t, "test-ref", b.Ref)
	assert.Equal(t, uint64(42), b.UserID)
	assert.Equal(t, []int{1, 2, 3}, b.Seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookConflictRollsBackWhole(t *testing.T) {
	c, mock := newTestCoordinator(t)

	mock.ExpectQuery("SELECT seat_number, row_num").
		WillReturnRows(freeSeatRows(1, 2, 3))
	mock.ExpectBegin()
	// A concurrent booking grabbed one of the three seats: only two rows
	// match the conditional update, so the claim must fail as a unit.
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	b, err := c.Book(context.Background(), 42, 3)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInfeasibleNeverTouchesStorage(t *testing.T) {
	c, mock := newTestCoordinator(t)

	mock.ExpectQuery("SELECT seat_number, row_num").
		WillReturnRows(freeSeatRows(80))

	b, err := c.Book(context.Background(), 42, 2)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, allocator.ErrInfeasible)
	// No transaction, no write.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRejectsOutOfRangeCounts(t *testing.T) {
	c, _ := newTestCoordinator(t)

	for _, count := range []int{0, -1, DefaultLayout.SeatsPerRow + 1} {
		b, err := c.Book(context.Background(), 42, count)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidRequest, "count=%d", count)
	}
}

func TestResetReleasesAndIsIdempotent(t *testing.T) {
	c, mock := newTestCoordinator(t)

	mock.ExpectExec("UPDATE seats").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("UPDATE seats").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	released, err := c.Reset(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(4), released)

	released, err = c.Reset(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), released)
	assert.NoError(t, mock.ExpectationsWereMet())
}
