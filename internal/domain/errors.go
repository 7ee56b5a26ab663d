package domain

import "errors"

var (
	// ErrDraftFinalized is returned when a finalized draft is mutated.
	ErrDraftFinalized = errors.New("domain: draft already finalized")

	// ErrDraftIncomplete is returned when a draft lacks a step record, slot or terms.
	ErrDraftIncomplete = errors.New("domain: draft incomplete")

	// ErrInvalidStep is returned for step numbers outside 1..TotalSteps.
	ErrInvalidStep = errors.New("domain: invalid step")

	// ErrBookingNotFound is wrapped by storage backends when no record has the requested id.
	ErrBookingNotFound = errors.New("domain: booking not found")
)
