package main

import (
	"context"

	"voicecmd/internal/assistant"
	"voicecmd/internal/bus"
)

// serve runs conversations over one hub connection. A conversation starts
// only once a transcript arrives, so the greeting goes to a known peer.
// serve returns when the connection drops or ctx ends.
func serve(ctx context.Context, b *bus.Bus, a *assistant.Assistant) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-b.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		if err := b.Wait(ctx); err != nil {
			return stopReason(b, err)
		}
		if err := a.Converse(ctx); err != nil {
			return stopReason(b, err)
		}
	}
}

// stopReason prefers the connection error over the cancellation it caused.
func stopReason(b *bus.Bus, err error) error {
	if berr := b.Err(); berr != nil {
		return berr
	}
	return err
}
