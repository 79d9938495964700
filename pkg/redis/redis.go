// Package redis provides an enform.Watcher that reads form defaults from a
// Redis key and follows it through keyspace notifications.
//
//	watcher := redis.New(client, "forms:signup:defaults")
//	reloader := enform.NewReloader(form, watcher)
//
// Operators publish new defaults with a plain SET of the whole document.
// The server must emit keyspace events for string commands, for example:
//
//	CONFIG SET notify-keyspace-events K$
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// writes are the keyspace events that replace the defaults document.
// Deleting or expiring the key leaves the form on its current defaults.
var writes = map[string]bool{
	"set":    true,
	"mset":   true,
	"setex":  true,
	"psetex": true,
	"setnx":  true,
}

// Watcher follows the defaults document stored under one Redis key.
type Watcher struct {
	client *redis.Client
	key    string
	db     int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDB sets the database index the key lives in. It must match the
// database the client is connected to. Default: 0.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// New creates a Watcher for the defaults stored under key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{client: client, key: key}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch subscribes to the key's keyspace channel, then emits the stored
// defaults, if any, followed by the new document after every write. A
// missing key emits nothing until the first write.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.channel())
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", w.channel(), err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		doc, found, err := w.defaults(ctx)
		if err != nil {
			return
		}
		if found && !send(ctx, out, doc) {
			return
		}

		events := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-events:
				if !ok {
					return
				}
				if !writes[msg.Payload] {
					continue
				}
				doc, found, err := w.defaults(ctx)
				if err != nil || !found {
					continue
				}
				if !send(ctx, out, doc) {
					return
				}
			}
		}
	}()

	return out, nil
}

// channel is the keyspace notification channel of the watched key.
func (w *Watcher) channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
}

// defaults reads the stored document. found is false when the key is unset.
func (w *Watcher) defaults(ctx context.Context) (doc []byte, found bool, err error) {
	doc, err = w.client.Get(ctx, w.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}

func send(ctx context.Context, out chan<- []byte, doc []byte) bool {
	select {
	case out <- doc:
		return true
	case <-ctx.Done():
		return false
	}
}
