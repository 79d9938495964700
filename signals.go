package enform

import "github.com/zoobzio/capitan"

// Form state signals.
var (
	// FormChanged is emitted when a field value is set.
	FormChanged = capitan.NewSignal(
		"enform.form.changed",
		"Field value changed",
	)

	// FormValidated is emitted after a single field was validated.
	FormValidated = capitan.NewSignal(
		"enform.form.validated",
		"Field validated",
	)

	// FormSubmitted is emitted when a submission passed validation.
	FormSubmitted = capitan.NewSignal(
		"enform.form.submitted",
		"Form submitted",
	)

	// FormSubmitRejected is emitted when validation blocked a submission.
	FormSubmitRejected = capitan.NewSignal(
		"enform.form.submit.rejected",
		"Form submission rejected by validation",
	)

	// FormReset is emitted when values and errors return to the baseline.
	FormReset = capitan.NewSignal(
		"enform.form.reset",
		"Form reset to initial values",
	)

	// FormReconfigured is emitted when a new initial configuration replaced
	// the baseline.
	FormReconfigured = capitan.NewSignal(
		"enform.form.reconfigured",
		"Form adopted new initial values",
	)
)

// Error store signals.
var (
	// FormErrorsSet is emitted when external errors were merged.
	FormErrorsSet = capitan.NewSignal(
		"enform.form.errors.set",
		"External errors merged",
	)

	// FormErrorsRejected is emitted when an external error payload was not a
	// mapping.
	FormErrorsRejected = capitan.NewSignal(
		"enform.form.errors.rejected",
		"External error payload rejected",
	)

	// FormErrorsCleared is emitted when one or all errors were cleared.
	FormErrorsCleared = capitan.NewSignal(
		"enform.form.errors.cleared",
		"Errors cleared",
	)
)

// Reloader lifecycle signals.
var (
	// ReloaderStarted is emitted when a Reloader begins watching.
	ReloaderStarted = capitan.NewSignal(
		"enform.reloader.started",
		"Reloader watching started",
	)

	// ReloaderStopped is emitted when a Reloader stops watching.
	ReloaderStopped = capitan.NewSignal(
		"enform.reloader.stopped",
		"Reloader watching stopped",
	)

	// ReloaderStateChanged is emitted when a Reloader transitions between states.
	ReloaderStateChanged = capitan.NewSignal(
		"enform.reloader.state.changed",
		"Reloader state transition",
	)

	// ReloaderChangeReceived is emitted when raw data arrives from the watcher.
	ReloaderChangeReceived = capitan.NewSignal(
		"enform.reloader.change.received",
		"Raw initial values received from watcher",
	)

	// ReloaderDecodeFailed is emitted when a document could not be decoded
	// into initial values.
	ReloaderDecodeFailed = capitan.NewSignal(
		"enform.reloader.decode.failed",
		"Initial values decode failed",
	)

	// ReloaderApplyFailed is emitted when the apply callback rejected a
	// configuration.
	ReloaderApplyFailed = capitan.NewSignal(
		"enform.reloader.apply.failed",
		"Initial values rejected by apply callback",
	)

	// ReloaderApplySucceeded is emitted when a document was applied to the form.
	ReloaderApplySucceeded = capitan.NewSignal(
		"enform.reloader.apply.succeeded",
		"Initial values applied",
	)
)
