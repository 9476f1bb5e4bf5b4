//go:build !espeak

package espeak

import (
	"context"
	"errors"
)

var errDisabled = errors.New("espeak not available: rebuild with -tags espeak")

// Engine stub when libespeak-ng is not linked in.
type Engine struct{}

func New(_ string, _ int) *Engine {
	return &Engine{}
}

func (e *Engine) Init() error {
	return errDisabled
}

func (e *Engine) Close() error {
	return nil
}

func (e *Engine) Speak(_ context.Context, _ string) error {
	return errDisabled
}
