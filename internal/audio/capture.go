package audio

import (
	"context"
	"fmt"
	"log/slog"

	"voicecmd/internal/audio/vad"
	"voicecmd/internal/speech"
)

// segment reads frames into buf until det ends the phrase. read refills buf
// with the next frame.
func segment(ctx context.Context, buf []float32, read func() error, det *vad.Detector, logger *slog.Logger) ([]float32, error) {
	started := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := read(); err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}

		ev := det.Feed(buf)
		if !started && det.Speaking() {
			started = true
			logger.Debug("speech started")
		}

		switch ev {
		case vad.TimedOut:
			return nil, speech.ErrCaptureTimeout
		case vad.Done:
			pcm := det.Samples()
			logger.Debug("captured phrase", "samples", len(pcm))
			return pcm, nil
		}
	}
}
