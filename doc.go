// Package enform provides a form-state controller.
//
// A Form owns the values and error states of a fixed set of named fields and
// exposes the operations a presentation layer needs: change a value, submit,
// reset, validate one field, clear errors and merge errors from an external
// source. It never renders anything; render functions receive a Snapshot and
// call back into the form through its Handlers.
//
// # State
//
// Values maps field names to arbitrary values. Errors maps the same field
// names to an error state: false when the field is valid, any truthy payload
// (usually a message) when it is not. The field set is fixed by the initial
// values the form is built with:
//
//   - Errors always has exactly the keys of the initial values
//   - Values may gain extra keys through OnChange, but dirty and validity
//     checks only look at the initial fields
//   - a new form starts with a copy of the initial values and every error
//     set to false
//
// All mutations are actions applied by a single reducer against the latest
// committed state, so handlers called back to back never lose updates.
//
// # Validation
//
// Validators receive every current value, which makes cross-field rules
// possible:
//
//	form := enform.New(
//	    enform.Values{"password": "", "confirm": ""},
//	    enform.WithValidation(enform.Validation{
//	        "password": enform.Tag("password", "required,min=8"),
//	        "confirm": enform.ValidatorFunc(func(v enform.Values) any {
//	            if v["confirm"] != v["password"] {
//	                return "Passwords do not match"
//	            }
//	            return false
//	        }),
//	    }),
//	)
//
//	form.OnSubmit(func(values enform.Values) {
//	    account.Create(values)
//	})
//
// Tag and TagWith build validators from go-playground/validator tags. All
// and Message combine validators.
//
// # Reconfiguration
//
// Reconfigure offers the form a new initial configuration. The form resets
// only when the configuration really differs from its baseline, compared by
// a key-order independent serialization, so re-supplying the same defaults
// keeps the user's edits. WithEquality overrides the comparison.
//
// A Reloader drives Reconfigure from a Watcher: ChannelWatcher, FileWatcher
// or the redis watcher in pkg/redis.
//
//	reloader := enform.NewReloader(form, enform.NewFileWatcher("defaults.yaml")).
//	    Codec(enform.YAMLCodec{})
//	if err := reloader.Start(ctx); err != nil {
//	    log.Printf("initial defaults failed: %v", err)
//	}
//
// # Observability
//
// Forms and reloaders emit capitan signals (FormSubmitted, FormReset,
// ReloaderStateChanged, ...) carrying the form name and related fields.
// MetricsProvider receives counters and submission timings.
package enform
