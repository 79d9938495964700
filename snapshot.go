package enform

import "slices"

// Handlers is the set of operations a render function may call. Every field
// is always non-nil, whatever the form configuration.
type Handlers struct {
	OnChange      func(field string, value any)
	OnSubmit      func(callback func(Values))
	IsDirty       func() bool
	ValidateField func(field string) (valid, ok bool)
	ClearError    func(field string)
	ClearErrors   func()
	SetErrors     func(partial any) bool
	Reset         func()
}

// Snapshot is the view of a form handed to render functions. Values and
// Errors are copies; writing to them does not affect the form.
//
// Version counts the committed changes the snapshot reflects. Snapshots from
// concurrent goroutines may reach subscribers out of order; a subscriber
// that keeps the latest view should ignore versions older than one it has
// already seen.
type Snapshot struct {
	Values  Values
	Errors  Errors
	Status  Status
	Version uint64

	Handlers
}

// Render hands the current snapshot of f to fn and returns its result.
// fn must only change form state through the snapshot's handlers.
//
//	html := enform.Render(form, func(s enform.Snapshot) string {
//	    return page.Signup(s.Values, s.Errors)
//	})
func Render[R any](f *Form, fn func(Snapshot) R) R {
	return fn(f.Snapshot())
}

// Subscribe registers fn to receive a snapshot after every committed state
// change. Snapshots are delivered synchronously in the goroutine that caused
// the change, so ordering is only guaranteed per goroutine; compare
// Snapshot.Version to discard stale ones. The returned function removes the
// subscription.
func (f *Form) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	f.subMu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.subMu.Unlock()

	return func() {
		f.subMu.Lock()
		delete(f.subs, id)
		f.subMu.Unlock()
	}
}

// notify delivers snap to every subscriber in registration order.
func (f *Form) notify(snap Snapshot) {
	f.subMu.Lock()
	if len(f.subs) == 0 {
		f.subMu.Unlock()
		return
	}
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Snapshot), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, f.subs[id])
	}
	f.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// snapshot builds a snapshot of s. The caller holds f.mu.
func (f *Form) snapshot(s formState) Snapshot {
	snap := Snapshot{
		Values:   s.values.Clone(),
		Errors:   s.errors.Clone(),
		Status:   StatusPristine,
		Version:  f.version,
		Handlers: f.handlers,
	}
	switch {
	case !s.errors.Valid():
		snap.Status = StatusInvalid
	case dirty(s):
		snap.Status = StatusDirty
	}
	return snap
}
