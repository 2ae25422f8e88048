package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/train-seat-booking/internal/model"
)

// FreeSeat is the slim projection handed to the allocator: just the seat
// number and its row, for seats not currently part of any booking.
type FreeSeat struct {
	Number int
	Row    int
}

// SeatRepo provides methods to work with seats in the database.  The
// coach layout is written once by InitLayout; afterwards only the
// booking columns (booking_ref, user_id) ever change.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions that
// span repository methods.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// InitLayout seeds the seats table when it is empty.  Seats are numbered
// 1..totalSeats and assigned rows of seatsPerRow each, the last row taking
// the remainder.  Calling it against an already seeded table is a no-op,
// so it is safe to run on every startup.
func (r *SeatRepo) InitLayout(ctx context.Context, totalSeats, seatsPerRow int) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	// Column is row_num, not row_number: ROW_NUMBER is a reserved word in MySQL 8.
	query := `INSERT INTO seats (seat_number, row_num) VALUES `
	args := make([]interface{}, 0, totalSeats*2)
	for n := 1; n <= totalSeats; n++ {
		if n > 1 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, n, (n-1)/seatsPerRow+1)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListFree returns every unheld seat ordered by row then seat number, the
// ordering the allocator's policies are defined over.
func (r *SeatRepo) ListFree(ctx context.Context) ([]FreeSeat, error) {
	const q = `SELECT seat_number, row_num
	           FROM seats
	           WHERE booking_ref IS NULL AND user_id IS NULL
	           ORDER BY row_num, seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []FreeSeat
	for rows.Next() {
		var s FreeSeat
		if err := rows.Scan(&s.Number, &s.Row); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns the complete seat map ordered by seat number, including
// booking columns, for rendering availability to clients.
func (r *SeatRepo) ListAll(ctx context.Context) ([]model.Seat, error) {
	const q = `SELECT seat_number, row_num, booking_ref, user_id, created_at, updated_at
	           FROM seats
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns the seats currently held by the given user ordered by
// seat number.  An empty slice means the user holds nothing.
func (r *SeatRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Seat, error) {
	const q = `SELECT seat_number, row_num, booking_ref, user_id, created_at, updated_at
	           FROM seats
	           WHERE user_id = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ClaimTx attaches bookingRef and userID to exactly the given seats inside
// the provided transaction, conditioned on every seat still being free.
// The single conditional UPDATE makes the claim all-or-nothing: when any
// targeted seat was taken concurrently, fewer rows match, ErrClaimConflict
// is returned and the caller must roll back.
func (r *SeatRepo) ClaimTx(ctx context.Context, tx *sql.Tx, seatNumbers []int, bookingRef string, userID uint64) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seatNumbers)), ",")
	query := `UPDATE seats
	          SET booking_ref = ?, user_id = ?, updated_at = CURRENT_TIMESTAMP
	          WHERE seat_number IN (` + placeholders + `)
	            AND booking_ref IS NULL AND user_id IS NULL`
	args := make([]interface{}, 0, len(seatNumbers)+2)
	args = append(args, bookingRef, userID)
	for _, n := range seatNumbers {
		args = append(args, n)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected != int64(len(seatNumbers)) {
		return ErrClaimConflict
	}
	return nil
}

// ReleaseByUser frees every seat held by the given user, clearing both
// booking columns, and returns how many seats were released.  Releasing a
// user with no seats is a no-op returning zero.
func (r *SeatRepo) ReleaseByUser(ctx context.Context, userID uint64) (int64, error) {
	const q = `UPDATE seats
	           SET booking_ref = NULL, user_id = NULL, updated_at = CURRENT_TIMESTAMP
	           WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// scanSeat reads one row of the full seat projection.
func scanSeat(rows *sql.Rows) (model.Seat, error) {
	var (
		s      model.Seat
		ref    sql.NullString
		userID sql.NullInt64
	)
	if err := rows.Scan(&s.Number, &s.Row, &ref, &userID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return model.Seat{}, err
	}
	if ref.Valid {
		v := ref.String
		s.BookingRef = &v
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		s.UserID = &v
	}
	return s, nil
}
