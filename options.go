package enform

import (
	"context"

	"github.com/zoobzio/clockz"
)

// Option configures a Form.
type Option func(*Form)

// WithValidation sets the validator mapping. Without it every submission
// succeeds.
func WithValidation(validation Validation) Option {
	return func(f *Form) {
		f.validation = validation
	}
}

// WithEquality replaces the serialization based comparison Reconfigure uses
// to decide whether a configuration is new. Use it when initial values hold
// types whose JSON form is lossy or unstable.
func WithEquality(eq Equality) Option {
	return func(f *Form) {
		f.equality = eq
	}
}

// WithName sets the form name attached to every emitted event.
// Default: a random UUID.
func WithName(name string) Option {
	return func(f *Form) {
		if name != "" {
			f.name = name
		}
	}
}

// WithMetrics sets a metrics provider.
func WithMetrics(provider MetricsProvider) Option {
	return func(f *Form) {
		f.metrics = provider
	}
}

// WithClock sets the clock used to time submissions.
// Use clockz.NewFakeClock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(f *Form) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithCodec sets the codec SetErrorsRaw decodes with. Default: JSONCodec.
func WithCodec(codec Codec) Option {
	return func(f *Form) {
		if codec != nil {
			f.codec = codec
		}
	}
}

// WithContext sets the context events are emitted with.
// Default: context.Background().
func WithContext(ctx context.Context) Option {
	return func(f *Form) {
		if ctx != nil {
			f.ctx = ctx
		}
	}
}
