package draft

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition rejects status changes whose required fields are
// missing or malformed, e.g. owned without a cost.
var ErrInvalidTransition = errors.New("invalid draft transition")

// Change is a member-initiated edit to one state row. Nil pointers leave the
// matching field untouched where the target status allows it.
type Change struct {
	Status        Status
	Cost          *int64
	Buyer         *string
	ExpectedPrice *int64
	Note          *string
}

// Apply computes the next state for one row. It is a pure function over the
// full row: the caller persists the result as a single atomic write keyed by
// (user, league, player), so stale partial edits can never interleave with a
// newer row (last writer wins at row granularity).
func Apply(s State, ch Change, now time.Time) (State, error) {
	if _, ok := AllStatuses[ch.Status]; !ok {
		return State{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, ch.Status)
	}

	next := s
	next.Status = ch.Status
	next.UpdatedAt = now

	if ch.ExpectedPrice != nil {
		if *ch.ExpectedPrice < 0 {
			return State{}, fmt.Errorf("%w: expected price cannot be negative", ErrInvalidTransition)
		}
		next.ExpectedPrice = *ch.ExpectedPrice
	}
	if ch.Note != nil {
		next.Note = *ch.Note
	}

	switch ch.Status {
	case StatusAvailable, StatusInteresting:
		next.Cost = 0
		next.Buyer = ""
		next.AcquiredAt = nil
		next.RemovedAt = nil

	case StatusOwned:
		if ch.Cost == nil || *ch.Cost <= 0 {
			return State{}, fmt.Errorf("%w: owned requires a positive cost", ErrInvalidTransition)
		}
		next.Cost = *ch.Cost
		next.Buyer = ""
		acquired := now
		next.AcquiredAt = &acquired
		next.RemovedAt = nil

	case StatusTakenByOther:
		if ch.Buyer == nil || *ch.Buyer == "" {
			return State{}, fmt.Errorf("%w: taken_by_other requires a buyer", ErrInvalidTransition)
		}
		next.Buyer = *ch.Buyer
		if ch.Cost != nil {
			if *ch.Cost < 0 {
				return State{}, fmt.Errorf("%w: rival cost cannot be negative", ErrInvalidTransition)
			}
			next.Cost = *ch.Cost
		}
		acquired := now
		next.AcquiredAt = &acquired
		next.RemovedAt = nil

	case StatusRemoved:
		next.Cost = 0
		next.Buyer = ""
		next.AcquiredAt = nil
		removed := now
		next.RemovedAt = &removed
	}

	return next, nil
}

// Reset restores the row to its lazy default: available, expected price and
// note cleared. The tier label is deliberately left untouched.
func Reset(s State, now time.Time) State {
	next := s
	next.Status = StatusAvailable
	next.ExpectedPrice = 0
	next.Cost = 0
	next.Buyer = ""
	next.Note = ""
	next.AcquiredAt = nil
	next.RemovedAt = nil
	next.UpdatedAt = now
	return next
}
