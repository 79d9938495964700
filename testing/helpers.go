// Package testing provides test utilities and helpers for enform forms and
// reloaders.
package testing

import (
	"testing"
	"time"

	"github.com/zoobzio/enform"
)

// SignupValues returns the baseline of a small signup form used across tests.
func SignupValues() enform.Values {
	return enform.Values{
		"username": "",
		"email":    "",
		"age":      0,
	}
}

// SignupValidation returns validators for SignupValues.
func SignupValidation() enform.Validation {
	return enform.Validation{
		"username": enform.Message(enform.Tag("username", "required,min=3"), "Min 3 chars"),
		"email":    enform.Message(enform.Tag("email", "required,email"), "Invalid email"),
	}
}

// NewSignupForm creates a form with SignupValues and SignupValidation.
func NewSignupForm(opts ...enform.Option) *enform.Form {
	opts = append([]enform.Option{enform.WithValidation(SignupValidation())}, opts...)
	return enform.New(SignupValues(), opts...)
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the reloader reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, r *enform.Reloader, expected enform.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.State() == expected
	})
}

// RequireState fails the test immediately if the reloader is not in the expected state.
func RequireState(t *testing.T, r *enform.Reloader, expected enform.State) {
	t.Helper()
	if got := r.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireValues fails the test if any of the expected fields holds a
// different value. Fields not listed are not checked.
func RequireValues(t *testing.T, f *enform.Form, expected enform.Values) {
	t.Helper()
	values := f.Values()
	for field, want := range expected {
		got, ok := values[field]
		if !ok {
			t.Fatalf("expected field %q to be present", field)
		}
		if got != want {
			t.Fatalf("field %q: expected %v (%T), got %v (%T)", field, want, want, got, got)
		}
	}
}

// RequireInvalid fails the test unless exactly the given fields hold a
// truthy error state.
func RequireInvalid(t *testing.T, f *enform.Form, fields ...string) {
	t.Helper()
	got := f.Errors().Invalid()
	if len(got) != len(fields) {
		t.Fatalf("expected invalid fields %v, got %v", fields, got)
	}
	want := make(map[string]bool, len(fields))
	for _, field := range fields {
		want[field] = true
	}
	for _, field := range got {
		if !want[field] {
			t.Fatalf("expected invalid fields %v, got %v", fields, got)
		}
	}
}

// NewTestReloader creates a sync mode reloader for f fed by a channel.
// Returns the reloader and a channel for sending test documents.
func NewTestReloader(t *testing.T, f *enform.Form) (*enform.Reloader, chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	r := enform.NewReloader(f, enform.NewSyncChannelWatcher(ch)).SyncMode()
	return r, ch
}
