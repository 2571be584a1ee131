package core

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmissionInFlight is returned by FormFlow.Begin while a previous
// submission has not resolved yet.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// FormFlow serializes submissions for one form instance. Begin hands out a
// generation token and refuses re-entry while a request is in flight, so a
// double-click cannot create two documents. Reset bumps the generation:
// a response that resolves afterwards carries a stale token and is discarded
// instead of being applied to form state that has moved on.
type FormFlow struct {
	mu         sync.Mutex
	generation uint64
	inFlight   bool
}

// Begin marks a submission as in flight and returns its generation token.
func (s *FormFlow) Begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return 0, ErrSubmissionInFlight
	}
	s.inFlight = true
	return s.generation, nil
}

// Resolve runs apply only if token still matches the current generation.
// It reports whether the result was applied; a stale result is dropped
// silently and leaves form state untouched.
func (s *FormFlow) Resolve(token uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.generation {
		return false
	}
	s.inFlight = false
	if apply != nil {
		apply()
	}
	return true
}

// Submit runs fn as the form's single in-flight submission. Re-entry while fn
// has not resolved returns ErrSubmissionInFlight before fn runs, so a second
// submission of the same form cannot create a duplicate record. A failed fn
// leaves the entered values intact and returns the form to Idle for re-edit.
// If the form was Reset while fn ran, the outcome does not touch form state.
func (f *DocumentForm) Submit(ctx context.Context, fn func(context.Context) error) error {
	token, err := f.flow.Begin()
	if err != nil {
		return err
	}
	fnErr := fn(ctx)
	f.flow.Resolve(token, func() {
		if fnErr != nil {
			f.state = StateIdle
		}
	})
	return fnErr
}

// Reset abandons the current editing session. Any in-flight submission keeps
// running, but its result will no longer match the generation and is ignored
// at resolution time.
func (s *FormFlow) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.inFlight = false
}
