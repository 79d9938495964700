package enform

import "github.com/zoobzio/capitan"

// Field keys for form and reloader events.
var (
	// KeyForm is the name of the form that emitted the event.
	KeyForm = capitan.NewStringKey("form")

	// KeyField is the field an event refers to.
	KeyField = capitan.NewStringKey("field")

	// KeyInvalid is the number of fields that failed validation.
	KeyInvalid = capitan.NewIntKey("invalid")

	// KeyDropped is the number of external errors naming unknown fields.
	KeyDropped = capitan.NewIntKey("dropped")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyState is the current state of a Reloader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
