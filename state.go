package enform

// Status summarizes a form snapshot.
type Status int32

const (
	// StatusPristine means every value equals its initial value and no field
	// holds an error.
	StatusPristine Status = iota

	// StatusDirty means at least one value differs from its initial value and
	// no field holds an error.
	StatusDirty

	// StatusInvalid means at least one field holds a truthy error.
	StatusInvalid
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPristine:
		return "pristine"
	case StatusDirty:
		return "dirty"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// State is the state of a Reloader.
type State int32

const (
	// StateLoading indicates the Reloader has not processed any document yet.
	StateLoading State = iota

	// StateHealthy indicates the last document was decoded and applied.
	StateHealthy

	// StateDegraded indicates the last document failed. The form keeps the
	// baseline of the last good document.
	StateDegraded

	// StateEmpty indicates no document was ever applied. The form keeps the
	// initial values it was constructed with.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
