package vad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameSize = 320 // 20ms @ 16kHz

func frame(level float32) []float32 {
	f := make([]float32, frameSize)
	for i := range f {
		if i%2 == 0 {
			f[i] = level
		} else {
			f[i] = -level
		}
	}
	return f
}

func TestRMS(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 0.5, RMS(frame(0.5)), 1e-6)
}

func TestCalibratorThreshold(t *testing.T) {
	cfg := DefaultConfig()

	var empty Calibrator
	assert.Equal(t, cfg.MinThreshold, empty.Threshold(cfg))

	var quiet Calibrator
	quiet.Add(frame(0.001))
	assert.Equal(t, cfg.MinThreshold, quiet.Threshold(cfg), "floor applies in a silent room")

	var noisy Calibrator
	for i := 0; i < 10; i++ {
		noisy.Add(frame(0.1))
	}
	assert.InDelta(t, 0.15, noisy.Threshold(cfg), 1e-6)
}

func TestDetectorTimesOutWithoutSpeech(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDetector(cfg, 0.05, 100*time.Millisecond)

	var ev Event
	frames := 0
	for ev = Continue; ev == Continue; frames++ {
		ev = d.Feed(frame(0.01))
		require.Less(t, frames, 100)
	}

	assert.Equal(t, TimedOut, ev)
	assert.Equal(t, 5, frames)
	assert.False(t, d.Speaking())
	assert.Empty(t, d.Samples())
}

func TestDetectorEndsPhraseOnPause(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pause = 100 * time.Millisecond
	cfg.PreRoll = 40 * time.Millisecond
	d := NewDetector(cfg, 0.05, time.Second)

	for i := 0; i < 3; i++ {
		require.Equal(t, Continue, d.Feed(frame(0.01)))
	}
	for i := 0; i < 10; i++ {
		require.Equal(t, Continue, d.Feed(frame(0.3)))
	}
	assert.True(t, d.Speaking())

	var ev Event
	silent := 0
	for ev = Continue; ev == Continue; silent++ {
		ev = d.Feed(frame(0.01))
	}

	assert.Equal(t, Done, ev)
	assert.Equal(t, 5, silent)
	// 2 pre-roll frames + 10 speech frames + 5 trailing silence frames
	assert.Len(t, d.Samples(), 17*frameSize)
}

func TestDetectorRespectsPhraseLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhraseLimit = 200 * time.Millisecond
	d := NewDetector(cfg, 0.05, 0)

	var ev Event
	n := 0
	for ev = Continue; ev == Continue; n++ {
		ev = d.Feed(frame(0.5))
		require.Less(t, n, 100)
	}
	assert.Equal(t, Done, ev)
	assert.Equal(t, 10, n)
}

func TestDetectorZeroTimeoutWaitsForever(t *testing.T) {
	d := NewDetector(DefaultConfig(), 0.05, 0)
	for i := 0; i < 1000; i++ {
		require.Equal(t, Continue, d.Feed(frame(0)))
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "timed_out", TimedOut.String())
	assert.Equal(t, "unknown", Event(42).String())
}
