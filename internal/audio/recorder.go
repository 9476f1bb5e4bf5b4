//go:build !noportaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"voicecmd/internal/audio/vad"
)

const frameSize = 320 // 20ms @ 16kHz

// MicrophoneAvailable is false in builds tagged noportaudio.
const MicrophoneAvailable = true

// Recorder captures utterances from the default input device.
type Recorder struct {
	cfg    vad.Config
	logger *slog.Logger

	mu        sync.Mutex
	threshold float64
}

func NewRecorder(cfg vad.Config, logger *slog.Logger) *Recorder {
	return &Recorder{
		cfg:       cfg,
		logger:    logger,
		threshold: cfg.MinThreshold,
	}
}

func (r *Recorder) Name() string { return "microphone" }

func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	return nil
}

func (r *Recorder) Close() error {
	return portaudio.Terminate()
}

// Threshold returns the current speech energy threshold.
func (r *Recorder) Threshold() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threshold
}

// Calibrate samples ambient noise for d and derives a new threshold.
func (r *Recorder) Calibrate(ctx context.Context, d time.Duration) error {
	buf := make([]float32, frameSize)
	stream, err := r.open(buf)
	if err != nil {
		return err
	}
	defer stream.Close()
	defer stream.Stop()

	var cal vad.Calibrator
	frames := int(d / (20 * time.Millisecond))
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Read(); err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
		cal.Add(buf)
	}

	t := cal.Threshold(r.cfg)
	r.mu.Lock()
	r.threshold = t
	r.mu.Unlock()

	r.logger.Debug("calibrated microphone", "duration", d, "threshold", t)
	return nil
}

// Capture waits up to timeout for speech to begin and returns the phrase
// as mono float32 PCM at the configured sample rate.
func (r *Recorder) Capture(ctx context.Context, timeout time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)
	stream, err := r.open(buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	defer stream.Stop()

	det := vad.NewDetector(r.cfg, r.Threshold(), timeout)
	return segment(ctx, buf, stream.Read, det, r.logger)
}

func (r *Recorder) open(buf []float32) (*portaudio.Stream, error) {
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(r.cfg.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("starting stream: %w", err)
	}
	return stream, nil
}
