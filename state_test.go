package enform

import "testing"

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusPristine: "pristine",
		StatusDirty:    "dirty",
		StatusInvalid:  "invalid",
		Status(999):    "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateLoading:  "loading",
		StateHealthy:  "healthy",
		StateDegraded: "degraded",
		StateEmpty:    "empty",
		State(999):    "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestState_Values(t *testing.T) {
	if StateLoading != 0 {
		t.Errorf("expected StateLoading=0, got %d", StateLoading)
	}
	if StatusPristine != 0 {
		t.Errorf("expected StatusPristine=0, got %d", StatusPristine)
	}
}
