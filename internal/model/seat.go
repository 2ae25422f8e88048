package model

import "time"

// Seat describes one bookable seat in the coach as stored in the
// `seats` table.  Seats are created once when the layout is seeded
// and only ever change their booking columns afterwards.  A seat is
// held exactly when both BookingRef and UserID are non-nil.
//
// Fields:
//  Number     – coach-wide seat number (1-based, primary key).
//  Row        – row the seat belongs to (seats 1..7 -> row 1, etc.).
//  BookingRef – reference of the booking holding the seat, nil when free.
//  UserID     – user holding the seat, nil when free.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
	Number     int       // seats.seat_number
	Row        int       // seats.row_num
	BookingRef *string   // seats.booking_ref (nullable)
	UserID     *uint64   // seats.user_id (nullable)
	CreatedAt  time.Time // seats.created_at
	UpdatedAt  time.Time // seats.updated_at
}

// Held reports whether the seat is currently part of a booking.
func (s Seat) Held() bool {
	return s.BookingRef != nil && s.UserID != nil
}
