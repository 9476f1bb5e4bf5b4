// Package notify plays the short audible cue that precedes dictation.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

const playbackRate = beep.SampleRate(44100)

// Beeper plays a sound file, or a synthesized tone when none is set.
type Beeper struct {
	sound  string
	logger *slog.Logger

	once    sync.Once
	initErr error
}

func NewBeeper(sound string, logger *slog.Logger) *Beeper {
	return &Beeper{sound: sound, logger: logger}
}

// Beep blocks until the cue has finished playing.
func (b *Beeper) Beep(ctx context.Context) error {
	b.once.Do(func() {
		b.initErr = speaker.Init(playbackRate, playbackRate.N(time.Second/10))
	})
	if b.initErr != nil {
		return fmt.Errorf("initializing speaker: %w", b.initErr)
	}

	s, closer, err := b.load()
	if err != nil {
		return err
	}
	defer closer()

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (b *Beeper) load() (beep.Streamer, func(), error) {
	if b.sound == "" {
		return tone(playbackRate, 880, 150*time.Millisecond), func() {}, nil
	}

	f, err := os.Open(b.sound)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sound: %w", err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(b.sound)) {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".ogg", ".oga":
		s, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("unsupported sound format %q", filepath.Ext(b.sound))
	}
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decoding sound: %w", err)
	}

	b.logger.Debug("playing sound", "path", b.sound, "rate", format.SampleRate)
	closer := func() {
		s.Close()
		f.Close()
	}
	return beep.Resample(4, format.SampleRate, playbackRate, s), closer, nil
}

func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	pos := 0
	return beep.Take(sr.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.3 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	}))
}

// Noop is used when the cue is disabled.
type Noop struct{}

func (Noop) Beep(context.Context) error { return nil }
