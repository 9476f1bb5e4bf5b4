//go:build noportaudio

package audio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voicecmd/internal/audio/vad"
)

var errNoPortaudio = errors.New("microphone not available: built with -tags noportaudio")

const MicrophoneAvailable = false

// Recorder stub for builds without portaudio.
type Recorder struct {
	cfg vad.Config
}

func NewRecorder(cfg vad.Config, _ *slog.Logger) *Recorder {
	return &Recorder{cfg: cfg}
}

func (r *Recorder) Name() string {
	return "microphone"
}

func (r *Recorder) Init() error {
	return errNoPortaudio
}

func (r *Recorder) Close() error {
	return nil
}

func (r *Recorder) Threshold() float64 {
	return r.cfg.MinThreshold
}

func (r *Recorder) Calibrate(_ context.Context, _ time.Duration) error {
	return errNoPortaudio
}

func (r *Recorder) Capture(_ context.Context, _ time.Duration) ([]float32, error) {
	return nil, errNoPortaudio
}
