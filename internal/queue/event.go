// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a seat claim commits.  It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingRef string `json:"booking_ref"`
	UserID     uint64 `json:"user_id"`
	Seats      []int  `json:"seats"`
	SeatCount  int    `json:"seat_count"`
	CreatedAt  string `json:"created_at"`
}
