package services

import (
	"errors"
	"fmt"
)

// maxAllocAttempts bounds the id and nicename probing loops. It is a safety
// valve against runaway loops, not a business limit.
const maxAllocAttempts = 2000

var (
	// ErrIDSpaceExhausted means the allocator probed maxAllocAttempts
	// candidates without finding a free id. Surfaced to the operator,
	// never silently swallowed.
	ErrIDSpaceExhausted = errors.New("id allocation exhausted attempt limit")

	// ErrNicenameExhausted means nicename suffixing ran out of attempts.
	ErrNicenameExhausted = errors.New("nicename generation exhausted attempt limit")
)

// ConflictError reports a storage uniqueness violation that survived the
// single retry at the insert boundary.
type ConflictError struct {
	Resource string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflicts with an existing record: %v", e.Resource, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
