package model

// Booking binds a set of seats to a user under an opaque reference.
// Bookings are not a table of their own: the reference lives on each
// claimed seat row, so a booking exists exactly as long as at least
// one seat still carries its reference.
//
// Fields:
//  Ref    – opaque reference generated when the claim commits.
//  UserID – user the seats are held for.
//  Seats  – seat numbers claimed together, in selection order.
type Booking struct {
	Ref    string `json:"booking_ref"`
	UserID uint64 `json:"user_id"`
	Seats  []int  `json:"seats"`
}
