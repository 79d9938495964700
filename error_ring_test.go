package enform

import (
	"errors"
	"testing"
)

func TestRing_NilSafe(t *testing.T) {
	var r *ring[error]

	r.push(errors.New("test"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil from nil ring")
	}
}

func TestRing_NonPositiveSize(t *testing.T) {
	if newErrorRing(0) != nil {
		t.Error("expected nil ring for size 0")
	}
	if newErrorRing(-1) != nil {
		t.Error("expected nil ring for negative size")
	}
}

func TestRing_FillsWithoutWrapping(t *testing.T) {
	r := newErrorRing(3)
	e1, e2 := errors.New("one"), errors.New("two")
	r.push(e1)
	r.push(e2)

	got := r.all()
	if len(got) != 2 || got[0] != e1 || got[1] != e2 {
		t.Errorf("expected [one two], got %v", got)
	}
}

func TestRing_WrapsAndEvictsOldest(t *testing.T) {
	r := &ring[string]{items: make([]string, 3)}
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		r.push(s)
	}

	got := r.all()
	want := []string{"c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRing_ClearThenPush(t *testing.T) {
	r := newErrorRing(2)
	r.push(errors.New("old"))
	r.clear()

	if r.all() != nil {
		t.Error("expected nil after clear")
	}

	e := errors.New("new")
	r.push(e)
	if got := r.all(); len(got) != 1 || got[0] != e {
		t.Errorf("expected [new], got %v", got)
	}
}

func TestRing_SizeOne(t *testing.T) {
	r := newErrorRing(1)
	r.push(errors.New("first"))
	last := errors.New("second")
	r.push(last)

	if got := r.all(); len(got) != 1 || got[0] != last {
		t.Errorf("expected [second], got %v", got)
	}
}
