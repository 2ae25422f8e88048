package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coachSeats builds the standard layout snapshot (80 seats, 7 per row,
// row 12 holding 78-80) minus the given held seats.
func coachSeats(held ...int) []Seat {
	taken := make(map[int]bool, len(held))
	for _, n := range held {
		taken[n] = true
	}
	var free []Seat
	for n := 1; n <= 80; n++ {
		if !taken[n] {
			free = append(free, Seat{Number: n, Row: (n-1)/7 + 1})
		}
	}
	return free
}

func TestSelectRejectsInvalidCount(t *testing.T) {
	_, err := Select(0, coachSeats())
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Select(-3, coachSeats())
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestSelectInfeasibleWhenNotEnoughFree(t *testing.T) {
	free := []Seat{{Number: 4, Row: 1}, {Number: 9, Row: 2}, {Number: 33, Row: 5}}
	_, err := Select(4, free)
	assert.ErrorIs(t, err, ErrInfeasible)

	_, err = Select(1, nil)
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestSelectEmptyCoach(t *testing.T) {
	got, err := Select(3, coachSeats())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestSelectFullRowAfterFirstRowTaken(t *testing.T) {
	got, err := Select(7, coachSeats(1, 2, 3, 4, 5, 6, 7))
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14}, got)
}

func TestSelectPrefersSameRowOverEarlierCrossRowRun(t *testing.T) {
	// 7 and 8 are consecutive across the row boundary and come first in
	// the ordering, but 10-11 sit together in one row and must win.
	free := []Seat{
		{Number: 7, Row: 1},
		{Number: 8, Row: 2},
		{Number: 10, Row: 2},
		{Number: 11, Row: 2},
	}
	got, err := Select(2, free)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, got)
}

func TestSelectFallsBackToCrossRowRun(t *testing.T) {
	free := []Seat{
		{Number: 7, Row: 1},
		{Number: 8, Row: 2},
		{Number: 10, Row: 2},
	}
	got, err := Select(2, free)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, got)
}

func TestSelectLowestRowWinsAmongSameRowRuns(t *testing.T) {
	// Both rows have a free pair; the earlier row must be chosen.
	got, err := Select(2, coachSeats(1, 2, 4, 6, 8, 10, 13))
	require.NoError(t, err)
	// Row 1 leaves {3,5,7}: no pair. Row 2 leaves {9,11,12,14}: 11-12.
	assert.Equal(t, []int{11, 12}, got)
}

func TestSelectTightestWindowWhenNoRunExists(t *testing.T) {
	free := []Seat{
		{Number: 10, Row: 2},
		{Number: 20, Row: 3},
		{Number: 21, Row: 3},
		{Number: 22, Row: 4},
		{Number: 23, Row: 4},
		{Number: 50, Row: 8},
	}
	// No run of 5 anywhere: the window policy picks the 5 seats with the
	// smallest number spread.
	got, err := Select(5, free)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 21, 22, 23}, got)
}

func TestSelectWindowTieBreaksOnFirstSeatNumber(t *testing.T) {
	free := []Seat{
		{Number: 1, Row: 1},
		{Number: 3, Row: 1},
		{Number: 11, Row: 2},
		{Number: 13, Row: 2},
	}
	// Windows {1,3} and {11,13} both span 2; the lower first seat wins.
	got, err := Select(2, free)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got)
}

func TestSelectSingleSeatTakesLowestPosition(t *testing.T) {
	free := []Seat{
		{Number: 44, Row: 7},
		{Number: 12, Row: 2},
		{Number: 71, Row: 11},
	}
	got, err := Select(1, free)
	require.NoError(t, err)
	assert.Equal(t, []int{12}, got)
}

func TestSelectHandlesUnsortedInputAndDoesNotMutateIt(t *testing.T) {
	free := []Seat{
		{Number: 3, Row: 1},
		{Number: 1, Row: 1},
		{Number: 2, Row: 1},
	}
	got, err := Select(3, free)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	// Input order untouched.
	assert.Equal(t, []Seat{{Number: 3, Row: 1}, {Number: 1, Row: 1}, {Number: 2, Row: 1}}, free)
}

func TestSelectTruncatedLastRow(t *testing.T) {
	// Only the short row 12 (seats 78-80) is free: a run of 3 in one row.
	held := make([]int, 0, 77)
	for n := 1; n <= 77; n++ {
		held = append(held, n)
	}
	got, err := Select(3, coachSeats(held...))
	require.NoError(t, err)
	assert.Equal(t, []int{78, 79, 80}, got)

	_, err = Select(4, coachSeats(held...))
	assert.ErrorIs(t, err, ErrInfeasible)
}

func TestSelectExactCountLeavesNothingExtra(t *testing.T) {
	got, err := Select(7, coachSeats())
	require.NoError(t, err)
	require.Len(t, got, 7)
	for i, n := range got {
		assert.Equal(t, i+1, n)
	}
}
