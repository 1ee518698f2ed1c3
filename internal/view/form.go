package view

import (
	"context"
	"sync"

	"github.com/matthieukhl/loyaltyctl/internal/validate"
	"github.com/pkg/errors"
)

// ErrSubmitInFlight is returned when a second submission is attempted while
// one is still running.
var ErrSubmitInFlight = errors.New("submission already in flight")

// Decoder turns raw form fields into a validated payload. It returns field
// errors instead of a payload when validation fails.
type Decoder[T any] func(fields map[string]string) (T, validate.FieldErrors)

// Form is the state machine behind a create/edit form: a set of string
// fields, per-field validation errors, and a busy latch that blocks
// concurrent submissions. Resetting the form for another record replaces
// the field state wholesale, so nothing from a previous edit session leaks
// into the next.
type Form[T any] struct {
	mu     sync.Mutex
	decode Decoder[T]

	fields  map[string]string
	errs    validate.FieldErrors
	editing bool
	busy    bool
}

func NewForm[T any](decode Decoder[T]) *Form[T] {
	return &Form[T]{
		decode: decode,
		fields: map[string]string{},
	}
}

// Reset replaces every field. Pass the pre-filled values of the record
// being edited, or the create-mode defaults.
func (f *Form[T]) Reset(fields map[string]string, editing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = map[string]string{}
	for name, value := range fields {
		f.fields[name] = value
	}
	f.errs = nil
	f.editing = editing
}

func (f *Form[T]) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[name] = value
}

func (f *Form[T]) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

func (f *Form[T]) Fields() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields := make(map[string]string, len(f.fields))
	for name, value := range f.fields {
		fields[name] = value
	}
	return fields
}

// Editing reports whether the form was reset from an existing record.
func (f *Form[T]) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editing
}

// Busy reports whether a submission is in flight.
func (f *Form[T]) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Errors returns the field errors of the last failed submission.
func (f *Form[T]) Errors() validate.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs
}

// Submit validates the fields and, only when they pass, hands the payload
// to submit. Validation failures are recorded per field and never reach the
// callback. The busy latch rejects a second submission until the first one
// finishes.
func (f *Form[T]) Submit(ctx context.Context, submit func(context.Context, T) error) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	fields := make(map[string]string, len(f.fields))
	for name, value := range f.fields {
		fields[name] = value
	}
	payload, errs := f.decode(fields)
	if len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return errs
	}
	f.errs = nil
	f.busy = true
	f.mu.Unlock()

	err := submit(ctx, payload)

	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
	return err
}
