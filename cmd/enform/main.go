// Command enform checks value documents against tag rules and follows
// defaults files the way a form would.
//
//	enform check --values profile.yaml --rules rules.yaml
//	enform watch --file defaults.yaml --debounce 250ms
//
// Every flag can also be set through an ENFORM_ prefixed environment
// variable, for example ENFORM_RULES=rules.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
