// Package booking turns allocator decisions into durable seat claims.
// The coordinator owns the transaction around a claim and is the only
// writer of seat state; the allocator it calls is a pure function over
// the free-seat snapshot loaded here.
package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/train-seat-booking/internal/allocator"
	"github.com/iliyamo/train-seat-booking/internal/model"
	"github.com/iliyamo/train-seat-booking/internal/repository"
)

// Layout describes the fixed coach geometry.  The last row takes the
// remainder when TotalSeats is not a multiple of SeatsPerRow.
type Layout struct {
	TotalSeats  int
	SeatsPerRow int
}

// DefaultLayout is the standard coach: 80 seats, 7 per row, 3 in row 12.
var DefaultLayout = Layout{TotalSeats: 80, SeatsPerRow: 7}

// ErrInvalidRequest is returned when the requested seat count is below 1
// or above the per-request cap (one row's worth of seats).
var ErrInvalidRequest = errors.New("invalid seat count")

// ErrConflict is returned when a concurrent booking took at least one of
// the selected seats between snapshot and commit.  The claim failed as a
// unit; callers may retry selection from a fresh snapshot.
var ErrConflict = errors.New("booking conflict")

// Coordinator books and releases seats against the seat repository.
type Coordinator struct {
	seats  *repository.SeatRepo
	layout Layout
	newRef func() string
}

// NewCoordinator constructs a Coordinator for the given layout.  Booking
// references are UUIDs.
func NewCoordinator(seats *repository.SeatRepo, layout Layout) *Coordinator {
	if seats == nil {
		panic("nil seat repository passed to NewCoordinator")
	}
	return &Coordinator{seats: seats, layout: layout, newRef: uuid.NewString}
}

// EnsureLayout seeds the seat table on first use.  Safe to call on every
// startup.
func (c *Coordinator) EnsureLayout(ctx context.Context) error {
	return c.seats.InitLayout(ctx, c.layout.TotalSeats, c.layout.SeatsPerRow)
}

// Book claims count seats for the user and returns the resulting booking.
// The seat set is chosen by the allocator from a snapshot of free seats
// and then committed with a single conditional update, so either every
// selected seat is claimed or none is.  Distinct errors separate the
// failure modes: ErrInvalidRequest (bad count), allocator.ErrInfeasible
// (fewer than count seats free anywhere) and ErrConflict (selection
// invalidated by a concurrent claim).
func (c *Coordinator) Book(ctx context.Context, userID uint64, count int) (*model.Booking, error) {
	if count < 1 || count > c.layout.SeatsPerRow {
		return nil, ErrInvalidRequest
	}
	free, err := c.seats.ListFree(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make([]allocator.Seat, len(free))
	for i, s := range free {
		snapshot[i] = allocator.Seat{Number: s.Number, Row: s.Row}
	}
	selected, err := allocator.Select(count, snapshot)
	if err != nil {
		return nil, err
	}

	ref := c.newRef()
	tx, err := c.seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := c.seats.ClaimTx(ctx, tx, selected, ref, userID); err != nil {
		if errors.Is(err, repository.ErrClaimConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &model.Booking{Ref: ref, UserID: userID, Seats: selected}, nil
}

// Reset releases every seat held by the user and returns how many were
// freed.  Resetting a user with no seats returns zero.
func (c *Coordinator) Reset(ctx context.Context, userID uint64) (int64, error) {
	return c.seats.ReleaseByUser(ctx, userID)
}
