package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-booking/internal/booking"
	"github.com/iliyamo/train-seat-booking/internal/repository"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	seatRepo := repository.NewSeatRepo(db)
	return NewBookingHandler(booking.NewCoordinator(seatRepo, booking.DefaultLayout), seatRepo), mock
}

// bookingContext builds an echo context as JWTAuth would leave it: the
// JWT subject lands in the context as a float64 claim.
func bookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	return c, rec
}

func TestBookRejectsInvalidCount(t *testing.T) {
	h, mock := newBookingHandler(t)

	c, rec := bookingContext(t, `{"seats":0}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = bookingContext(t, `{"seats":8}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Neither request may reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookInfeasibleMapsToBadRequest(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("SELECT seat_number, row_num").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "row_num"}).AddRow(80, 12))

	c, rec := bookingContext(t, `{"seats":2}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough seats")
}

func TestBookConflictMapsToConflict(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectQuery("SELECT seat_number, row_num").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "row_num"}).
			AddRow(1, 1).AddRow(2, 1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	c, rec := bookingContext(t, `{"seats":2}`)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRequiresIdentity(t *testing.T) {
	h, _ := newBookingHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/book", strings.NewReader(`{"seats":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no user_id in context

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetReportsReleasedCount(t *testing.T) {
	h, mock := newBookingHandler(t)

	mock.ExpectExec("UPDATE seats").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/reset", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))

	require.NoError(t, h.Reset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"released":0`)
}

func TestGetSeatMapCountsAvailability(t *testing.T) {
	h, mock := newBookingHandler(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"seat_number", "row_num", "booking_ref", "user_id", "created_at", "updated_at",
	}).
		AddRow(1, 1, "ref-1", 7, now, now).
		AddRow(2, 1, nil, nil, now, now)
	mock.ExpectQuery("SELECT seat_number, row_num, booking_ref, user_id").
		WillReturnRows(rows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.GetSeatMap(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booked":1`)
	assert.Contains(t, rec.Body.String(), `"available":1`)
}
