package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxBatchSize is the largest number of orders the cross-border pay API accepts in one call.
const MaxBatchSize = 30

var (
	// ErrValidation is the parent of every input validation error.
	ErrValidation = errors.New("validation error")
	// ErrEmptyBatch is returned when no usable order ID remains after normalization.
	ErrEmptyBatch = fmt.Errorf("%w: order ID list must not be empty", ErrValidation)
	// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
	ErrBatchTooLarge = fmt.Errorf("%w: order count must not exceed %d", ErrValidation, MaxBatchSize)
	// ErrEmptyOrderID is returned when a single order ID is blank.
	ErrEmptyOrderID = fmt.Errorf("%w: order ID must not be empty", ErrValidation)
)

// OrderID is an opaque 1688 order identifier.
type OrderID = string

// Batch is an ordered list of order IDs with 1 ≤ len ≤ MaxBatchSize.
// Duplicates are kept as given.
type Batch []OrderID

// NewBatch trims every ID, drops blanks and validates the resulting size.
func NewBatch(ids []string) (Batch, error) {
	batch := make(Batch, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			batch = append(batch, id)
		}
	}

	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(batch) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}
	return batch, nil
}

// NormalizeOrderID trims a single order ID and rejects blanks.
func NormalizeOrderID(id string) (OrderID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptyOrderID
	}
	return id, nil
}

// Without returns the IDs of b not present in exclude, in b's order.
func (b Batch) Without(exclude []OrderID) Batch {
	drop := make(map[OrderID]struct{}, len(exclude))
	for _, id := range exclude {
		drop[id] = struct{}{}
	}

	out := make(Batch, 0, len(b))
	for _, id := range b {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Clone returns a copy of b so outcomes never alias the caller's batch.
func (b Batch) Clone() Batch {
	out := make(Batch, len(b))
	copy(out, b)
	return out
}
