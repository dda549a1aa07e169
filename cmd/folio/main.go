package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"folio/internal/publish"
)

const (
	exitFailure       = 1
	exitConfiguration = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps configuration mistakes (unknown template, no destination) to
// a distinct status so scripts can tell them from runtime failures.
func exitCode(err error) int {
	if publish.Kind(err) == publish.KindConfiguration {
		return exitConfiguration
	}
	return exitFailure
}
