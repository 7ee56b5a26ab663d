package domain

import (
	"fmt"
	"maps"
	"time"
)

// StepRecord holds the validated values of one wizard step.
type StepRecord map[string]string

// Clone returns an independent copy of the record.
func (r StepRecord) Clone() StepRecord {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Draft accumulates validated step records for one session.
// It is mutated only by successful step commits and is frozen once a
// booking record has been finalized from it.
type Draft struct {
	Steps           map[int]StepRecord `json:"steps"`
	Slot            *SelectedSlot      `json:"slot,omitempty"`
	TermsAcceptedAt *time.Time         `json:"termsAcceptedAt,omitempty"`
	Record          *BookingRecord     `json:"record,omitempty"`
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{Steps: make(map[int]StepRecord)}
}

// CommitStep replaces the record of a step as a whole.
func (d *Draft) CommitStep(step int, record StepRecord) error {
	if d.IsFinalized() {
		return ErrDraftFinalized
	}
	if step < 1 || step > TotalSteps {
		return fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	if d.Steps == nil {
		d.Steps = make(map[int]StepRecord)
	}
	d.Steps[step] = record.Clone()
	return nil
}

// CommitSlot stores the validated slot selection.
func (d *Draft) CommitSlot(slot SelectedSlot) error {
	if d.IsFinalized() {
		return ErrDraftFinalized
	}
	d.Slot = &slot
	return nil
}

// AcceptTerms records when the terms were accepted.
func (d *Draft) AcceptTerms(at time.Time) error {
	if d.IsFinalized() {
		return ErrDraftFinalized
	}
	d.TermsAcceptedAt = &at
	return nil
}

// Step returns a copy of a committed step record, or nil.
func (d *Draft) Step(step int) StepRecord {
	return d.Steps[step].Clone()
}

// Value returns one committed step 1 value.
func (d *Draft) Value(field string) string {
	return d.Steps[StepDetails][field]
}

// IsComplete reports whether the draft holds everything a booking record needs.
func (d *Draft) IsComplete() bool {
	return d.Steps[StepDetails] != nil && d.Slot != nil && d.TermsAcceptedAt != nil
}

// IsFinalized reports whether a booking record was created from this draft.
func (d *Draft) IsFinalized() bool {
	return d.Record != nil
}

// Finalize attaches the booking record. It succeeds only once per draft.
func (d *Draft) Finalize(record *BookingRecord) error {
	if d.IsFinalized() {
		return ErrDraftFinalized
	}
	if !d.IsComplete() {
		return ErrDraftIncomplete
	}
	d.Record = record
	return nil
}
