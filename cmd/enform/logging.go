package main

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/enform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// logEvents forwards form and reloader signals to log.
func logEvents(log *zap.Logger) {
	capitan.Hook(enform.ReloaderStateChanged, func(_ context.Context, e *capitan.Event) {
		oldState, _ := enform.KeyOldState.From(e)
		newState, _ := enform.KeyNewState.From(e)
		log.Info("reloader state changed",
			zap.String("form", formOf(e)),
			zap.String("old_state", oldState),
			zap.String("new_state", newState),
		)
	})

	capitan.Hook(enform.ReloaderDecodeFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := enform.KeyError.From(e)
		log.Warn("defaults rejected", zap.String("form", formOf(e)), zap.String("error", errMsg))
	})

	capitan.Hook(enform.ReloaderApplyFailed, func(_ context.Context, e *capitan.Event) {
		errMsg, _ := enform.KeyError.From(e)
		log.Warn("defaults refused", zap.String("form", formOf(e)), zap.String("error", errMsg))
	})

	capitan.Hook(enform.ReloaderChangeReceived, func(_ context.Context, e *capitan.Event) {
		log.Debug("defaults document received", zap.String("form", formOf(e)))
	})

	capitan.Hook(enform.FormReconfigured, func(_ context.Context, e *capitan.Event) {
		log.Info("form reconfigured", zap.String("form", formOf(e)))
	})

	capitan.Hook(enform.FormSubmitRejected, func(_ context.Context, e *capitan.Event) {
		invalid, _ := enform.KeyInvalid.From(e)
		log.Debug("submit rejected", zap.String("form", formOf(e)), zap.Int("invalid", invalid))
	})
}

func formOf(e *capitan.Event) string {
	name, _ := enform.KeyForm.From(e)
	return name
}
