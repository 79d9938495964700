package enform

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// Reloader feeds initial configurations from a Watcher into a Form.
//
// Every document the watcher emits is decoded into Values, optionally
// checked, and offered to Form.Reconfigure. Documents identical to the
// current baseline leave the form untouched; different ones reset it. If a
// document fails to decode or is refused by the check, the form keeps its
// baseline and the Reloader enters a degraded state while it keeps watching.
type Reloader struct {
	form           *Form
	watcher        Watcher
	accept         func(ctx context.Context, prev, curr Values) error
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	onStop         func(State)

	state        atomic.Int32
	applied      atomic.Bool
	reconfigured atomic.Int64
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]

	mu      sync.Mutex
	started bool

	changes <-chan []byte
}

// NewReloader creates a Reloader that reconfigures form from the documents
// emitted by watcher.
//
//	reloader := enform.NewReloader(form, enform.NewFileWatcher("defaults.yaml")).
//	    Codec(enform.YAMLCodec{}).
//	    Debounce(200 * time.Millisecond)
func NewReloader(form *Form, watcher Watcher) *Reloader {
	r := &Reloader{
		form:     form,
		watcher:  watcher,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
		codec:    JSONCodec{},
	}
	r.state.Store(int32(StateLoading))
	return r
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Accept sets a check run on every decoded document before it reaches the
// form. Returning an error rejects the document. prev is the current
// baseline. Must be called before Start().
func (r *Reloader) Accept(fn func(ctx context.Context, prev, curr Values) error) *Reloader {
	r.accept = fn
	return r
}

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (r *Reloader) Debounce(d time.Duration) *Reloader {
	r.debounce = d
	return r
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed only through Process, without
// debouncing or goroutines. Must be called before Start().
func (r *Reloader) SyncMode() *Reloader {
	r.syncMode = true
	return r
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (r *Reloader) Clock(clock clockz.Clock) *Reloader {
	r.clock = clock
	return r
}

// Codec sets the codec for decoding documents.
// Default: JSONCodec. Must be called before Start().
func (r *Reloader) Codec(codec Codec) *Reloader {
	r.codec = codec
	return r
}

// StartupTimeout sets the maximum duration to wait for the first document.
// Default: no timeout. Must be called before Start().
func (r *Reloader) StartupTimeout(d time.Duration) *Reloader {
	r.startupTimeout = d
	return r
}

// OnStop sets a callback invoked with the final state when watching stops.
// Must be called before Start().
func (r *Reloader) OnStop(fn func(State)) *Reloader {
	r.onStop = fn
	return r
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (r *Reloader) ErrorHistorySize(n int) *Reloader {
	r.errorHistory = newErrorRing(n)
	return r
}

// State returns the current state of the Reloader.
func (r *Reloader) State() State {
	return State(r.state.Load())
}

// Reconfigured returns how many documents actually reset the form. Documents
// equal to the baseline are applied without counting.
func (r *Reloader) Reconfigured() int64 {
	return r.reconfigured.Load()
}

// LastError returns the last error encountered, or nil.
func (r *Reloader) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (r *Reloader) ErrorHistory() []error {
	return r.errorHistory.all()
}

// Start begins watching. It blocks until the first document is processed,
// then keeps watching asynchronously until ctx is canceled.
//
// If the first document fails, Start returns the error but keeps watching
// for valid documents. In sync mode only the first document is processed;
// use Process for the following ones.
//
// Start can only be called once.
func (r *Reloader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return fmt.Errorf("reloader already started")
	}
	r.started = true
	r.mu.Unlock()

	capitan.Emit(ctx, ReloaderStarted,
		KeyForm.Field(r.form.Name()),
		KeyDebounce.Field(r.debounce),
	)

	changes, err := r.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if r.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = r.clock.WithTimeout(ctx, r.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if r.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: watcher did not emit initial values within %v", r.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial values")
		}
		r.received(ctx)
		initialErr = r.process(ctx, raw)
	}

	if r.syncMode {
		r.changes = changes
		return initialErr
	}

	go r.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next document from the watcher.
// It is only available in sync mode and reports false when no document is
// waiting or the channel is closed.
func (r *Reloader) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	select {
	case raw, ok := <-r.changes:
		if !ok {
			return false
		}
		r.received(ctx)
		_ = r.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

func (r *Reloader) received(ctx context.Context) {
	capitan.Emit(ctx, ReloaderChangeReceived,
		KeyForm.Field(r.form.Name()),
	)
}

// process decodes, checks and applies a single document.
func (r *Reloader) process(ctx context.Context, raw []byte) error {
	oldState := r.State()

	values, err := DecodeValues(r.codec, raw)
	if err != nil {
		r.fail(ctx, oldState, err)
		capitan.Emit(ctx, ReloaderDecodeFailed,
			KeyForm.Field(r.form.Name()),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("decode failed: %w", err)
	}

	if r.accept != nil {
		if err := r.accept(ctx, r.form.Initial(), values); err != nil {
			r.fail(ctx, oldState, err)
			capitan.Emit(ctx, ReloaderApplyFailed,
				KeyForm.Field(r.form.Name()),
				KeyError.Field(err.Error()),
			)
			return fmt.Errorf("document rejected: %w", err)
		}
	}

	if r.form.Reconfigure(values) {
		r.reconfigured.Add(1)
	}
	r.applied.Store(true)
	r.lastError.Store(nil)
	r.errorHistory.clear()
	r.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, ReloaderApplySucceeded,
		KeyForm.Field(r.form.Name()),
	)

	return nil
}

// fail records err and moves to the failure state.
func (r *Reloader) fail(ctx context.Context, oldState State, err error) {
	r.setError(err)
	r.transitionState(ctx, oldState, r.failureState())
}

// failureState returns the failure state depending on whether a document
// was ever applied.
func (r *Reloader) failureState() State {
	if !r.applied.Load() {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (r *Reloader) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	r.state.Store(int32(newState))
	capitan.Emit(ctx, ReloaderStateChanged,
		KeyForm.Field(r.form.Name()),
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
}

// setError stores an error atomically and adds it to the error history.
func (r *Reloader) setError(err error) {
	e := err
	r.lastError.Store(&e)
	r.errorHistory.push(err)
}

// watch processes changes from the watcher channel with debouncing.
func (r *Reloader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := r.State()
		capitan.Emit(ctx, ReloaderStopped,
			KeyForm.Field(r.form.Name()),
			KeyState.Field(finalState.String()),
		)
		if r.onStop != nil {
			r.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = r.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			r.received(ctx)
			pending = raw
			hasPending = true

			if timer == nil {
				timer = r.clock.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(r.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = r.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
