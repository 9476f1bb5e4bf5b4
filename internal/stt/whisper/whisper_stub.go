//go:build !whisper

package whisper

import (
	"context"
	"errors"
)

var errDisabled = errors.New("local whisper not available: rebuild with -tags whisper")

type Options struct {
	Threads       int
	InitialPrompt string
	BeamSize      int
}

// Transcriber stub when whisper.cpp is not linked in.
type Transcriber struct{}

func New(_ string, _ Options) (*Transcriber, error) {
	return nil, errDisabled
}

func (t *Transcriber) Close() error {
	return nil
}

func (t *Transcriber) Transcribe(_ context.Context, _ []float32, _ string) (string, error) {
	return "", errDisabled
}
