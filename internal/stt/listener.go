package stt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voicecmd/internal/speech"
)

// Capturer is the speech capture adapter: a microphone or a file drop.
type Capturer interface {
	Calibrate(ctx context.Context, d time.Duration) error
	Capture(ctx context.Context, timeout time.Duration) ([]float32, error)
}

// Ducker lowers other audio while the microphone is open.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

type ListenerOptions struct {
	Language       string        // BCP-47 tag passed to the recognizer
	PreCalibration time.Duration // ambient adjustment before every capture, 0 = off
	Ducker         Ducker        // optional
}

// Listener captures one utterance and transcribes it.
type Listener struct {
	capture Capturer
	tr      Transcriber
	opts    ListenerOptions
	logger  *slog.Logger
}

func NewListener(capture Capturer, tr Transcriber, opts ListenerOptions, logger *slog.Logger) *Listener {
	return &Listener{
		capture: capture,
		tr:      tr,
		opts:    opts,
		logger:  logger,
	}
}

func (l *Listener) Calibrate(ctx context.Context, d time.Duration) error {
	if err := l.capture.Calibrate(ctx, d); err != nil {
		return fmt.Errorf("calibrating: %w", err)
	}
	return nil
}

// Listen blocks until an utterance is transcribed. Nothing heard within
// timeout yields speech.ErrCaptureTimeout; an empty or unusable
// transcript yields speech.ErrUnrecognized.
func (l *Listener) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	if l.opts.PreCalibration > 0 {
		if err := l.Calibrate(ctx, l.opts.PreCalibration); err != nil {
			return "", err
		}
	}

	if d := l.opts.Ducker; d != nil {
		if err := d.Duck(ctx); err != nil {
			l.logger.Warn("ducking other streams", "err", err)
		}
		defer func() {
			if err := d.Restore(context.WithoutCancel(ctx)); err != nil {
				l.logger.Warn("restoring other streams", "err", err)
			}
		}()
	}

	l.logger.Debug("listening", "timeout", timeout)
	pcm, err := l.capture.Capture(ctx, timeout)
	if err != nil {
		if errors.Is(err, speech.ErrCaptureTimeout) {
			return "", err
		}
		return "", fmt.Errorf("capturing: %w", err)
	}

	text, err := l.tr.Transcribe(ctx, pcm, l.opts.Language)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", speech.ErrUnrecognized
	}
	l.logger.Info("heard", "text", text)
	return text, nil
}
