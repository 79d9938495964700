package enform

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Form owns the values and error states of a fixed set of fields.
//
// The field set is the key set of the initial values. Every mutation is an
// action reduced against the latest committed state under a single lock, so
// handlers invoked back to back never overwrite each other's changes.
// Submit callbacks, subscribers, metrics and events run after the commit,
// outside the lock, in the calling goroutine.
type Form struct {
	name       string
	ctx        context.Context
	validation Validation
	equality   Equality
	codec      Codec
	clock      clockz.Clock
	metrics    MetricsProvider
	handlers   Handlers

	mu      sync.Mutex
	state   formState
	version uint64

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a Form whose field set and baseline are the keys and values of
// initial. initial is copied; later changes to the caller's map are not seen.
//
//	form := enform.New(
//	    enform.Values{"username": ""},
//	    enform.WithValidation(enform.Validation{
//	        "username": enform.Message(enform.Tag("username", "min=3"), "Min 3 chars"),
//	    }),
//	)
func New(initial Values, opts ...Option) *Form {
	f := &Form{
		name:  uuid.NewString(),
		ctx:   context.Background(),
		codec: JSONCodec{},
		clock: clockz.RealClock,
		state: newFormState(initial),
		subs:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.handlers = Handlers{
		OnChange:      f.OnChange,
		OnSubmit:      f.OnSubmit,
		IsDirty:       f.IsDirty,
		ValidateField: f.ValidateField,
		ClearError:    f.ClearError,
		ClearErrors:   f.ClearErrors,
		SetErrors:     f.SetErrors,
		Reset:         f.Reset,
	}
	return f
}

// Name returns the name attached to the form's events.
func (f *Form) Name() string {
	return f.name
}

// Snapshot returns the current values, errors, status and handlers.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(f.state)
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.values.Clone()
}

// Errors returns a copy of the current error states.
func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.errors.Clone()
}

// Initial returns a copy of the current baseline.
func (f *Form) Initial() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.initial.Clone()
}

// dispatch reduces a against the latest state and commits the result. The
// snapshot of a committed change is delivered to subscribers before dispatch
// returns. A validator panic unwinds through here with the state unchanged.
func (f *Form) dispatch(a action) (outcome, Snapshot) {
	out, snap := f.commit(a)
	if out.committed {
		f.notify(snap)
	}
	return out, snap
}

// commit runs the reduction under f.mu and returns the snapshot of the state
// it leaves behind.
func (f *Form) commit(a action) (outcome, Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, out := reduce(f.state, a, rules{validation: f.validation, equality: f.equality})
	if out.committed {
		f.state = next
		f.version++
	}
	return out, f.snapshot(f.state)
}

// OnChange sets the value of field. A prior error on field is cleared
// without re-validating. Fields outside the initial set are stored but take
// no part in dirty or validity checks.
func (f *Form) OnChange(field string, value any) {
	out, _ := f.dispatch(changeAction{field: field, value: value})
	capitan.Emit(f.ctx, FormChanged,
		KeyForm.Field(f.name),
		KeyField.Field(field),
	)
	if out.cleared {
		capitan.Emit(f.ctx, FormErrorsCleared,
			KeyForm.Field(f.name),
			KeyField.Field(field),
		)
	}
	if f.metrics != nil {
		f.metrics.OnChange(field)
	}
}

// Validate runs every validator against the current values, merges the
// results into the error states and reports whether no result was truthy.
// Fields without a validator keep their error state. Without a validation
// mapping Validate always reports true.
func (f *Form) Validate() bool {
	out, _ := f.dispatch(validateAction{})
	return out.valid
}

// OnSubmit validates the form and, when every validator passed, calls
// callback with a copy of the values. A nil callback is skipped. Without a
// validation mapping the callback always runs.
func (f *Form) OnSubmit(callback func(Values)) {
	start := f.clock.Now()
	out, snap := f.dispatch(validateAction{})
	if f.metrics != nil {
		f.metrics.OnSubmit(out.valid, f.clock.Since(start))
	}

	if !out.valid {
		capitan.Emit(f.ctx, FormSubmitRejected,
			KeyForm.Field(f.name),
			KeyInvalid.Field(out.invalid),
		)
		return
	}

	capitan.Emit(f.ctx, FormSubmitted,
		KeyForm.Field(f.name),
	)
	if callback != nil {
		callback(snap.Values)
	}
}

// ValidateField runs the validator of field against the current values and
// stores its result. valid reports whether the field passed.
//
// ok is false when field has no value, in which case valid carries no
// meaning and must not be read as a pass. A field without a validator
// reports (true, true) and its error state is left alone.
func (f *Form) ValidateField(field string) (valid, ok bool) {
	out, _ := f.dispatch(validateFieldAction{field: field})
	if !out.applicable {
		return false, false
	}
	capitan.Emit(f.ctx, FormValidated,
		KeyForm.Field(f.name),
		KeyField.Field(field),
		KeyInvalid.Field(out.invalid),
	)
	if f.metrics != nil {
		f.metrics.OnValidate(field, out.valid)
	}
	return out.valid, true
}

// ClearError marks field valid. Unknown fields are ignored.
func (f *Form) ClearError(field string) {
	out, _ := f.dispatch(clearErrorAction{field: field})
	if !out.committed {
		return
	}
	capitan.Emit(f.ctx, FormErrorsCleared,
		KeyForm.Field(f.name),
		KeyField.Field(field),
	)
}

// ClearErrors marks every field valid. Values are left alone.
func (f *Form) ClearErrors() {
	f.dispatch(clearErrorsAction{})
	capitan.Emit(f.ctx, FormErrorsCleared,
		KeyForm.Field(f.name),
	)
}

// SetErrors merges error states from an external source, such as a server
// side validation response, into the form.
//
// partial may be any map with string keys (Errors, map[string]string,
// map[string]error, ...). Entries for fields outside the form are dropped and
// falsy entries are stored as false. SetErrors reports false, and changes
// nothing, when partial is not a map or is a map whose keys are not strings,
// such as map[int]string.
func (f *Form) SetErrors(partial any) bool {
	errs, ok := asErrors(partial)
	if !ok {
		capitan.Emit(f.ctx, FormErrorsRejected,
			KeyForm.Field(f.name),
			KeyError.Field("error payload is not a mapping"),
		)
		return false
	}
	out, _ := f.dispatch(setErrorsAction{errors: errs})
	capitan.Emit(f.ctx, FormErrorsSet,
		KeyForm.Field(f.name),
		KeyDropped.Field(out.dropped),
	)
	return true
}

// SetErrorsRaw decodes an error document with the form codec and merges it
// through SetErrors. It reports false when the document does not decode to
// a mapping.
func (f *Form) SetErrorsRaw(raw []byte) bool {
	var partial map[string]any
	if err := f.codec.Unmarshal(raw, &partial); err != nil {
		capitan.Emit(f.ctx, FormErrorsRejected,
			KeyForm.Field(f.name),
			KeyError.Field(err.Error()),
		)
		return false
	}
	if partial == nil {
		return f.SetErrors(nil)
	}
	return f.SetErrors(partial)
}

// IsDirty reports whether any field of the baseline holds a value different
// from its initial value. Comparison is strict: slices, maps and funcs are
// equal only when they are the very same instance.
func (f *Form) IsDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dirty(f.state)
}

// Reset restores the baseline values and marks every field valid.
func (f *Form) Reset() {
	f.dispatch(resetAction{})
	capitan.Emit(f.ctx, FormReset,
		KeyForm.Field(f.name),
	)
	if f.metrics != nil {
		f.metrics.OnReset(false)
	}
}

// Reconfigure offers a new initial configuration. When it describes the same
// fields and values as the current baseline, regardless of key order or map
// identity, nothing happens and Reconfigure reports false. Otherwise the
// form adopts initial as its baseline and field set, resets, and reports
// true.
func (f *Form) Reconfigure(initial Values) bool {
	out, _ := f.dispatch(reconfigureAction{initial: initial})
	if !out.committed {
		return false
	}
	capitan.Emit(f.ctx, FormReconfigured,
		KeyForm.Field(f.name),
	)
	if f.metrics != nil {
		f.metrics.OnReset(true)
	}
	return true
}

// dirty reports whether any baseline field of s differs from its value.
func dirty(s formState) bool {
	for field, initial := range s.initial {
		if !sameValue(initial, s.values[field]) {
			return true
		}
	}
	return false
}

// asErrors converts any map with string keys into Errors.
func asErrors(partial any) (Errors, bool) {
	switch p := partial.(type) {
	case nil:
		return nil, false
	case Errors:
		return p, true
	case map[string]any:
		return Errors(p), true
	case Values:
		return Errors(p), true
	}

	rv := reflect.ValueOf(partial)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	errs := make(Errors, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		errs[iter.Key().String()] = iter.Value().Interface()
	}
	return errs, true
}
