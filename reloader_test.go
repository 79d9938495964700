package enform

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func newSyncReloader(t *testing.T, form *Form) (*Reloader, chan []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	return NewReloader(form, NewSyncChannelWatcher(ch)).SyncMode(), ch
}

func TestReloader_AppliesInitialDocument(t *testing.T) {
	ctx := context.Background()
	form := New(Values{"username": ""})
	reloader, ch := newSyncReloader(t, form)

	ch <- []byte(`{"username": "guest", "remember": true}`)

	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	values := form.Values()
	if values["username"] != "guest" || values["remember"] != true {
		t.Errorf("unexpected values %v", values)
	}
	if reloader.State() != StateHealthy {
		t.Errorf("expected healthy, got %s", reloader.State())
	}
	if reloader.Reconfigured() != 1 {
		t.Errorf("expected 1 reconfiguration, got %d", reloader.Reconfigured())
	}
}

func TestReloader_YAML(t *testing.T) {
	ctx := context.Background()
	form := New(Values{})
	reloader, ch := newSyncReloader(t, form)
	reloader.Codec(YAMLCodec{})

	ch <- []byte("username: guest\nage: 30\n")

	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if form.Values()["age"] != 30 {
		t.Errorf("unexpected values %v", form.Values())
	}
}

func TestReloader_IdenticalDocumentKeepsEdits(t *testing.T) {
	ctx := context.Background()
	form := New(Values{"a": 0})
	reloader, ch := newSyncReloader(t, form)

	ch <- []byte(`{"a": 1, "b": 2}`)
	reloader.Start(ctx)

	form.OnChange("a", 5)

	ch <- []byte(`{"b": 2, "a": 1}`)
	if !reloader.Process(ctx) {
		t.Fatal("expected a document to be processed")
	}

	if form.Values()["a"] != 5 {
		t.Errorf("expected edit kept, got %v", form.Values()["a"])
	}
	if reloader.Reconfigured() != 1 {
		t.Errorf("expected 1 reconfiguration, got %d", reloader.Reconfigured())
	}
	if reloader.State() != StateHealthy {
		t.Errorf("expected healthy, got %s", reloader.State())
	}

	ch <- []byte(`{"a": 3, "b": 2}`)
	reloader.Process(ctx)

	if form.Values()["a"] != float64(3) {
		t.Errorf("expected reset to 3, got %v", form.Values()["a"])
	}
	if reloader.Reconfigured() != 2 {
		t.Errorf("expected 2 reconfigurations, got %d", reloader.Reconfigured())
	}
}

func TestReloader_NonFiniteDocumentKeepsEdits(t *testing.T) {
	ctx := context.Background()
	form := New(Values{})
	reloader, ch := newSyncReloader(t, form)
	reloader.Codec(YAMLCodec{})

	doc := []byte("ratio: .nan\nname: guest\n")
	ch <- doc
	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	form.OnChange("name", "edited")

	ch <- doc
	reloader.Process(ctx)

	if form.Values()["name"] != "edited" {
		t.Errorf("expected edit kept, got %v", form.Values()["name"])
	}
	if reloader.Reconfigured() != 1 {
		t.Errorf("expected 1 reconfiguration, got %d", reloader.Reconfigured())
	}
}

func TestReloader_InvalidInitialDocument(t *testing.T) {
	ctx := context.Background()
	form := New(Values{"a": "default"})
	reloader, ch := newSyncReloader(t, form)

	ch <- []byte(`{not json}`)

	if err := reloader.Start(ctx); err == nil {
		t.Fatal("expected decode error")
	}
	if reloader.State() != StateEmpty {
		t.Errorf("expected empty, got %s", reloader.State())
	}
	if form.Values()["a"] != "default" {
		t.Error("expected construction values kept")
	}
	if reloader.LastError() == nil {
		t.Error("expected last error recorded")
	}
}

func TestReloader_NullDocument(t *testing.T) {
	ctx := context.Background()
	reloader, ch := newSyncReloader(t, New(Values{}))

	ch <- []byte(`null`)

	if err := reloader.Start(ctx); err == nil {
		t.Fatal("expected error for document without values")
	}
}

func TestReloader_DegradedThenRecovers(t *testing.T) {
	ctx := context.Background()
	form := New(Values{})
	reloader, ch := newSyncReloader(t, form)
	reloader.ErrorHistorySize(3)

	ch <- []byte(`{"a": 1}`)
	reloader.Start(ctx)

	ch <- []byte(`[1, 2]`)
	reloader.Process(ctx)

	if reloader.State() != StateDegraded {
		t.Errorf("expected degraded, got %s", reloader.State())
	}
	if form.Initial()["a"] != float64(1) {
		t.Error("expected previous baseline retained")
	}
	if len(reloader.ErrorHistory()) != 1 {
		t.Errorf("expected 1 error in history, got %d", len(reloader.ErrorHistory()))
	}

	ch <- []byte(`{"a": 2}`)
	reloader.Process(ctx)

	if reloader.State() != StateHealthy {
		t.Errorf("expected healthy, got %s", reloader.State())
	}
	if reloader.LastError() != nil {
		t.Errorf("expected error cleared, got %v", reloader.LastError())
	}
	if reloader.ErrorHistory() != nil {
		t.Error("expected error history cleared")
	}
}

func TestReloader_AcceptRejects(t *testing.T) {
	ctx := context.Background()
	form := New(Values{})
	reloader, ch := newSyncReloader(t, form)

	errMissing := errors.New("username is required")
	var prevSeen Values
	reloader.Accept(func(_ context.Context, prev, curr Values) error {
		prevSeen = prev
		if _, ok := curr["username"]; !ok {
			return errMissing
		}
		return nil
	})

	ch <- []byte(`{"username": "guest"}`)
	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(prevSeen) != 0 {
		t.Errorf("expected empty previous baseline, got %v", prevSeen)
	}

	ch <- []byte(`{"email": "x"}`)
	reloader.Process(ctx)

	if reloader.State() != StateDegraded {
		t.Errorf("expected degraded, got %s", reloader.State())
	}
	if !errors.Is(reloader.LastError(), errMissing) {
		t.Errorf("expected accept error, got %v", reloader.LastError())
	}
	if prevSeen["username"] != "guest" {
		t.Errorf("expected previous baseline passed to accept, got %v", prevSeen)
	}
	if _, ok := form.Values()["email"]; ok {
		t.Error("expected rejected document not to reach the form")
	}
}

func TestReloader_StartTwice(t *testing.T) {
	ctx := context.Background()
	reloader, ch := newSyncReloader(t, New(Values{}))

	ch <- []byte(`{}`)
	reloader.Start(ctx)

	if err := reloader.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}
}

func TestReloader_WatcherClosedBeforeFirstDocument(t *testing.T) {
	ch := make(chan []byte)
	close(ch)
	reloader := NewReloader(New(Values{}), NewSyncChannelWatcher(ch)).SyncMode()

	if err := reloader.Start(context.Background()); err == nil {
		t.Error("expected error when watcher closes without a document")
	}
}

func TestReloader_StartupTimeout(t *testing.T) {
	ch := make(chan []byte)
	reloader := NewReloader(New(Values{}), NewSyncChannelWatcher(ch)).
		SyncMode().
		StartupTimeout(20 * time.Millisecond)

	if err := reloader.Start(context.Background()); err == nil {
		t.Error("expected startup timeout")
	}
}

func TestReloader_ProcessRequiresSyncMode(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{}`)
	reloader := NewReloader(New(Values{}), NewChannelWatcher(ch))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if reloader.Process(ctx) {
		t.Error("expected Process to return false outside sync mode")
	}
}

func TestReloader_Debounce_CoalescesRapidChanges(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte, 10)
	ch <- []byte(`{"a": 1}`)

	form := New(Values{})
	var snapshots atomic.Int32
	form.Subscribe(func(Snapshot) { snapshots.Add(1) })

	reloader := NewReloader(form, NewChannelWatcher(ch)).
		Debounce(100 * time.Millisecond).
		Clock(clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if reloader.Reconfigured() != 1 {
		t.Errorf("expected 1 reconfiguration after start, got %d", reloader.Reconfigured())
	}

	ch <- []byte(`{"a": 2}`)
	ch <- []byte(`{"a": 3}`)
	ch <- []byte(`{"a": 4}`)

	time.Sleep(10 * time.Millisecond)

	if reloader.Reconfigured() != 1 {
		t.Errorf("expected still 1 reconfiguration (debouncing), got %d", reloader.Reconfigured())
	}

	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	time.Sleep(10 * time.Millisecond)

	if reloader.Reconfigured() != 2 {
		t.Errorf("expected 2 reconfigurations after debounce, got %d", reloader.Reconfigured())
	}
	if form.Values()["a"] != float64(4) {
		t.Errorf("expected latest document applied, got %v", form.Values()["a"])
	}
	if snapshots.Load() != 2 {
		t.Errorf("expected 2 snapshots, got %d", snapshots.Load())
	}
}

func TestReloader_OnStop(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte(`{"a": 1}`)

	stopped := make(chan State, 1)
	reloader := NewReloader(New(Values{}), NewChannelWatcher(ch)).
		OnStop(func(s State) { stopped <- s })

	ctx, cancel := context.WithCancel(context.Background())
	if err := reloader.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	select {
	case s := <-stopped:
		if s != StateHealthy {
			t.Errorf("expected healthy final state, got %s", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for OnStop")
	}
}
