// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// booking coordinator and handlers to distinguish between different
// failure scenarios without string matching.
package repository

import "errors"

// ErrClaimConflict is returned when a conditional seat claim touches fewer
// rows than requested, meaning at least one targeted seat was taken by a
// concurrent booking between snapshot and commit.  The caller must roll
// back the enclosing transaction so the claim fails as a unit.
var ErrClaimConflict = errors.New("seat claim conflict")
