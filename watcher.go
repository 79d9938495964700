package enform

import "context"

// Watcher observes a source of initial-value documents and emits the raw
// bytes of each version on a channel.
type Watcher interface {
	// Watch begins observing the source. The current document must be
	// emitted first so a Reloader can configure the form at startup. The
	// channel is closed when ctx is canceled or the source fails for good.
	Watch(ctx context.Context) (<-chan []byte, error)
}
