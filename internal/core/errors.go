package core

import "errors"

// Validation errors: the request is malformed, nothing was written.
var (
	ErrEmptyCode        = errors.New("empty block code")
	ErrInvalidCode      = errors.New("block code must be a single letter")
	ErrInvalidCapacity  = errors.New("capacity must be positive")
	ErrInvalidAmount    = errors.New("amount must be a positive integer")
	ErrInvalidStatus    = errors.New("status must be active or inactive")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyNumber      = errors.New("empty grave number")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidBlock     = errors.New("invalid block reference")
	ErrInvalidGrave     = errors.New("invalid grave reference")
	ErrInvalidHeirOrder = errors.New("heir order number must be between 1 and 3")
	ErrTooManyHeirs     = errors.New("a grave holds at most 3 heirs")
	ErrInvalidPage      = errors.New("page out of range")
)

// Conflict and integrity errors mapped from store constraints.
var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateYear        = errors.New("payment already recorded for this grave and year")
	ErrDuplicateGraveNumber = errors.New("grave number already taken in this block")
	ErrDuplicateBlockCode   = errors.New("block code already in use")
	ErrDuplicateHeirOrder   = errors.New("heir order number already taken for this grave")
	ErrBlockHasGraves       = errors.New("block still has graves and cannot be deleted")
)
