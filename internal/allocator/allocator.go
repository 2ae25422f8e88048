// Package allocator implements the seat selection policy for the booking
// service.  Given a requested seat count and a snapshot of currently free
// seats it deterministically picks which seats to offer.  The package never
// touches storage; callers load the snapshot and commit the result.
package allocator

import (
	"errors"
	"sort"
)

// Seat is one free seat in the snapshot handed to Select.  Number is the
// coach-wide seat number (1-based, unique); Row is the 1-based row the seat
// sits in.
type Seat struct {
	Number int
	Row    int
}

// ErrInvalidCount is returned when fewer than one seat is requested.
var ErrInvalidCount = errors.New("requested seat count must be at least 1")

// ErrInfeasible is returned when the snapshot holds fewer free seats than
// requested.  Callers must not attempt a claim after seeing it.
var ErrInfeasible = errors.New("not enough free seats")

// Select picks k seat numbers from the free-seat snapshot.  Seats are
// considered in row order, then seat-number order within a row, and the
// first policy below that can be satisfied wins outright:
//
//  1. a run of k consecutively numbered seats inside a single row
//  2. a run of k consecutively numbered seats ignoring row boundaries
//  3. the window of k seats (in the same ordering) whose seat-number span
//     is smallest, ties going to the window with the lowest first seat
//
// When fewer than k seats are free, ErrInfeasible is returned.  Select
// never mutates the input slice.
func Select(k int, free []Seat) ([]int, error) {
	if k < 1 {
		return nil, ErrInvalidCount
	}
	if len(free) < k {
		return nil, ErrInfeasible
	}

	seats := make([]Seat, len(free))
	copy(seats, free)
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})

	if run := findRun(seats, k, true); run != nil {
		return run, nil
	}
	if run := findRun(seats, k, false); run != nil {
		return run, nil
	}
	return tightestWindow(seats, k), nil
}

// findRun scans the ordered snapshot for the first window of k seats with
// consecutive numbers.  With sameRow set, every seat in the window must
// additionally share a row.
func findRun(seats []Seat, k int, sameRow bool) []int {
	for i := 0; i+k <= len(seats); i++ {
		match := true
		for j := 1; j < k; j++ {
			if seats[i+j].Number != seats[i].Number+j {
				match = false
				break
			}
			if sameRow && seats[i+j].Row != seats[i].Row {
				match = false
				break
			}
		}
		if match {
			return numbers(seats[i : i+k])
		}
	}
	return nil
}

// tightestWindow returns the k-seat window minimizing the spread between
// its first and last seat number.  The caller guarantees len(seats) >= k.
func tightestWindow(seats []Seat, k int) []int {
	best := 0
	bestSpan := seats[k-1].Number - seats[0].Number
	for i := 1; i+k <= len(seats); i++ {
		span := seats[i+k-1].Number - seats[i].Number
		if span < bestSpan || (span == bestSpan && seats[i].Number < seats[best].Number) {
			best = i
			bestSpan = span
		}
	}
	return numbers(seats[best : best+k])
}

func numbers(seats []Seat) []int {
	out := make([]int, len(seats))
	for i, s := range seats {
		out[i] = s.Number
	}
	return out
}
