package enform

// formState is the committed state of a Form. It is treated as immutable:
// reduce never writes into the maps of the state it receives, it copies the
// map it changes and returns a new formState.
type formState struct {
	initial Values
	marker  marker
	values  Values
	errors  Errors
}

// newFormState builds the state of a freshly constructed or reset form.
func newFormState(initial Values) formState {
	base := initial.Clone()
	return formState{
		initial: base,
		marker:  identify(base),
		values:  base.Clone(),
		errors:  errorsFor(base),
	}
}

// rules carries the configuration reduce needs besides the state itself.
type rules struct {
	validation Validation
	equality   Equality
}

// action is a single state transition request.
type action interface{ isAction() }

type (
	changeAction struct {
		field string
		value any
	}
	validateAction      struct{}
	validateFieldAction struct{ field string }
	clearErrorAction    struct{ field string }
	clearErrorsAction   struct{}
	setErrorsAction     struct{ errors Errors }
	resetAction         struct{}
	reconfigureAction   struct{ initial Values }
)

func (changeAction) isAction()        {}
func (validateAction) isAction()      {}
func (validateFieldAction) isAction() {}
func (clearErrorAction) isAction()    {}
func (clearErrorsAction) isAction()   {}
func (setErrorsAction) isAction()     {}
func (resetAction) isAction()         {}
func (reconfigureAction) isAction()   {}

// outcome reports what a reduction did, for the side effects that follow a
// commit.
type outcome struct {
	// committed is false when the action left the state untouched.
	committed bool

	// valid is the validation verdict of validate and validateField.
	valid bool

	// applicable is false when validateField had no value to check.
	applicable bool

	// cleared is true when a change wiped a prior error.
	cleared bool

	// dropped counts setErrors entries naming unknown fields.
	dropped int

	// invalid counts truthy results of a validation run.
	invalid int
}

// reduce applies a to s and returns the next state. It is pure apart from
// calling the caller's validators.
func reduce(s formState, a action, r rules) (formState, outcome) {
	switch a := a.(type) {
	case changeAction:
		s.values = s.values.Clone()
		s.values[a.field] = a.value
		out := outcome{committed: true}
		if state, known := s.errors[a.field]; known && Truthy(state) {
			s.errors = s.errors.Clone()
			s.errors[a.field] = false
			out.cleared = true
		}
		return s, out

	case validateAction:
		results := r.validation.run(s.values.Clone())
		out := outcome{committed: true, valid: true}
		if len(results) == 0 {
			return s, out
		}
		s.errors = s.errors.Clone()
		for field, state := range results {
			if Truthy(state) {
				out.valid = false
				out.invalid++
			}
			if _, known := s.errors[field]; known {
				s.errors[field] = state
			}
		}
		return s, out

	case validateFieldAction:
		if value, ok := s.values[a.field]; !ok || value == nil {
			return s, outcome{}
		}
		rule := r.validation[a.field]
		if rule == nil {
			return s, outcome{valid: true, applicable: true}
		}
		state := normalize(rule.Evaluate(s.values.Clone()))
		out := outcome{valid: !Truthy(state), applicable: true}
		if _, known := s.errors[a.field]; known {
			s.errors = s.errors.Clone()
			s.errors[a.field] = state
			out.committed = true
		}
		if !out.valid {
			out.invalid = 1
		}
		return s, out

	case clearErrorAction:
		if _, known := s.errors[a.field]; !known {
			return s, outcome{}
		}
		s.errors = s.errors.Clone()
		s.errors[a.field] = false
		return s, outcome{committed: true}

	case clearErrorsAction:
		s.errors = errorsFor(s.initial)
		return s, outcome{committed: true}

	case setErrorsAction:
		out := outcome{committed: true}
		s.errors = s.errors.Clone()
		for field, state := range a.errors {
			if _, known := s.errors[field]; !known {
				out.dropped++
				continue
			}
			s.errors[field] = normalize(state)
		}
		return s, out

	case resetAction:
		s.values = s.initial.Clone()
		s.errors = errorsFor(s.initial)
		return s, outcome{committed: true}

	case reconfigureAction:
		next := newFormState(a.initial)
		var same bool
		if r.equality != nil {
			same = r.equality(s.initial, next.initial)
		} else {
			same = s.marker.same(next.marker)
		}
		if same {
			return s, outcome{}
		}
		return next, outcome{committed: true}
	}

	return s, outcome{}
}
