package enform

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared tag validator instance.
var validate = validator.New()

// Validator evaluates one field against the full set of current values.
// Receiving every value makes cross-field rules such as password
// confirmation expressible.
//
// Evaluate returns the field's error state: a falsy value when the field is
// valid, or a truthy payload (usually a message) when it is not.
type Validator interface {
	Evaluate(values Values) any
}

// ValidatorFunc adapts an ordinary function to the Validator interface.
type ValidatorFunc func(values Values) any

// Evaluate calls f(values).
func (f ValidatorFunc) Evaluate(values Values) any {
	return f(values)
}

// Validation maps field names to their validator. Fields without an entry
// are never validated and keep whatever error state they hold.
type Validation map[string]Validator

// run evaluates every validator against values and returns the normalized
// results. Nothing is committed here: a panicking validator aborts the whole
// run before any error state is touched.
func (v Validation) run(values Values) Errors {
	results := make(Errors, len(v))
	for field, rule := range v {
		if rule == nil {
			continue
		}
		results[field] = normalize(rule.Evaluate(values))
	}
	return results
}

// All combines validators for one field. The first truthy result wins.
func All(validators ...Validator) Validator {
	return ValidatorFunc(func(values Values) any {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if state := v.Evaluate(values); Truthy(state) {
				return state
			}
		}
		return false
	})
}

// Message replaces any truthy result of v with msg.
func Message(v Validator, msg string) Validator {
	return ValidatorFunc(func(values Values) any {
		if Truthy(v.Evaluate(values)) {
			return msg
		}
		return false
	})
}

// Tag validates values[field] with a go-playground/validator tag such as
// "required,min=3" or "email". The error payload names the failing rule.
//
//	enform.Validation{
//	    "email": enform.Tag("email", "required,email"),
//	}
func Tag(field, tag string) Validator {
	return ValidatorFunc(func(values Values) any {
		return tagError(validate.Var(values[field], tag))
	})
}

// TagWith validates values[field] against values[other] with a cross-field
// tag such as "eqfield" or "gtfield".
//
//	"confirm": enform.TagWith("confirm", "password", "eqfield")
func TagWith(field, other, tag string) Validator {
	return ValidatorFunc(func(values Values) any {
		return tagError(validate.VarWithValue(values[field], values[other], tag))
	})
}

// tagError turns a validator error into an error state.
func tagError(err error) any {
	if err == nil {
		return false
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return err.Error()
}
