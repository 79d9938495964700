package enform

import "time"

// MetricsProvider receives callbacks on form activity. Implement it to feed
// Prometheus, StatsD or similar systems.
type MetricsProvider interface {
	// OnChange is called after a field value was set.
	OnChange(field string)

	// OnValidate is called after a single field was validated.
	OnValidate(field string, valid bool)

	// OnSubmit is called after every submission attempt. Duration covers the
	// validation run, not the submit callback.
	OnSubmit(accepted bool, duration time.Duration)

	// OnReset is called after a reset. reconfigured is true when the reset
	// came from a new initial configuration.
	OnReset(reconfigured bool)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnChange(_ string)                {}
func (NoOpMetricsProvider) OnValidate(_ string, _ bool)      {}
func (NoOpMetricsProvider) OnSubmit(_ bool, _ time.Duration) {}
func (NoOpMetricsProvider) OnReset(_ bool)                   {}
