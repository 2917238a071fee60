package match

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidTransition = crerr.New("invalid match status transition")
	ErrEventsClosed      = crerr.New("match does not accept events in current status")
	// ErrStatusChanged is returned by a guarded write that found the match
	// outside the statuses it was allowed to touch.
	ErrStatusChanged = crerr.New("match status changed before write")
)

// StatusGuard restricts a repository write to matches currently in one of
// the listed statuses. An empty guard allows any status.
type StatusGuard []Status

func (g StatusGuard) Allows(status Status) bool {
	if len(g) == 0 {
		return true
	}
	for _, allowed := range g {
		if allowed == status {
			return true
		}
	}
	return false
}

// EventStatuses lists the statuses that accept goals, cards and substitutions.
func EventStatuses(lockCompleted bool) StatusGuard {
	if lockCompleted {
		return StatusGuard{StatusLineupSet, StatusInProgress, StatusHalfTime}
	}
	return StatusGuard{StatusLineupSet, StatusInProgress, StatusHalfTime, StatusCompleted}
}

// CompletionStatuses lists the statuses completeMatch may finalize.
func CompletionStatuses(lockCompleted bool) StatusGuard {
	return EventStatuses(lockCompleted)
}

var allowedTransitions = map[Status][]Status{
	StatusScheduled:  {StatusLineupSet, StatusPostponed, StatusCancelled},
	StatusLineupSet:  {StatusLineupSet, StatusInProgress, StatusPostponed, StatusCancelled},
	StatusInProgress: {StatusHalfTime, StatusCompleted},
	StatusHalfTime:   {StatusInProgress, StatusCompleted},
	StatusPostponed:  {StatusScheduled, StatusCancelled},
}

// Transition validates moving a match from one status to another.
func Transition(from, to Status) error {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// AcceptsEvents reports whether goals, cards and substitutions may be appended.
// A completed match stays writable only when lockCompleted is false.
func AcceptsEvents(status Status, lockCompleted bool) error {
	if EventStatuses(lockCompleted).Allows(status) {
		return nil
	}
	return fmt.Errorf("%w: status=%s", ErrEventsClosed, status)
}

// AcceptsCompletion reports whether completeMatch may finalize the match.
func AcceptsCompletion(status Status, lockCompleted bool) error {
	if CompletionStatuses(lockCompleted).Allows(status) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, status, StatusCompleted)
}
