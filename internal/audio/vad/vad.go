// Package vad is the energy-based voice activity detection used by the
// microphone recorder: ambient calibration and phrase segmentation.
package vad

import (
	"math"
	"time"
)

// Config controls phrase segmentation. Durations are converted to sample
// counts using SampleRate.
type Config struct {
	SampleRate   int
	MinThreshold float64       // floor for the RMS energy threshold
	DynamicRatio float64       // threshold = ambient RMS * DynamicRatio
	Pause        time.Duration // trailing silence that ends a phrase
	PreRoll      time.Duration // audio kept from before speech onset
	PhraseLimit  time.Duration // 0 = unlimited
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		MinThreshold: 0.015,
		DynamicRatio: 1.5,
		Pause:        800 * time.Millisecond,
		PreRoll:      300 * time.Millisecond,
		PhraseLimit:  15 * time.Second,
	}
}

func (c Config) samples(d time.Duration) int {
	return int(int64(d) * int64(c.SampleRate) / int64(time.Second))
}

// RMS returns the root-mean-square energy of a frame.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var s float64
	for _, x := range frame {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s / float64(len(frame)))
}

// Calibrator accumulates ambient noise energy.
type Calibrator struct {
	sum    float64
	frames int
}

func (c *Calibrator) Add(frame []float32) {
	c.sum += RMS(frame)
	c.frames++
}

// Threshold derives the speech threshold from the ambient level seen so far.
func (c *Calibrator) Threshold(cfg Config) float64 {
	if c.frames == 0 {
		return cfg.MinThreshold
	}
	t := c.sum / float64(c.frames) * cfg.DynamicRatio
	if t < cfg.MinThreshold {
		return cfg.MinThreshold
	}
	return t
}

type Event int

const (
	Continue Event = iota
	Done
	TimedOut
)

func (e Event) String() string {
	switch e {
	case Continue:
		return "continue"
	case Done:
		return "done"
	case TimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Detector segments a single phrase out of a stream of frames.
type Detector struct {
	cfg       Config
	threshold float64
	timeout   int

	speaking bool
	waited   int
	silence  int
	preRoll  [][]float32
	preLen   int
	out      []float32
}

// NewDetector starts a detector. A zero timeout waits for speech forever.
func NewDetector(cfg Config, threshold float64, timeout time.Duration) *Detector {
	return &Detector{
		cfg:       cfg,
		threshold: threshold,
		timeout:   cfg.samples(timeout),
	}
}

// Feed consumes one frame. The frame may be reused by the caller afterwards.
func (d *Detector) Feed(frame []float32) Event {
	n := len(frame)
	loud := RMS(frame) > d.threshold

	if !d.speaking {
		if loud {
			d.speaking = true
			for _, f := range d.preRoll {
				d.out = append(d.out, f...)
			}
			d.preRoll = nil
			d.out = append(d.out, frame...)
			return Continue
		}

		d.keepPreRoll(frame)
		d.waited += n
		if d.timeout > 0 && d.waited >= d.timeout {
			return TimedOut
		}
		return Continue
	}

	d.out = append(d.out, frame...)
	if loud {
		d.silence = 0
	} else {
		d.silence += n
		if d.silence >= d.cfg.samples(d.cfg.Pause) {
			return Done
		}
	}

	if limit := d.cfg.samples(d.cfg.PhraseLimit); limit > 0 && len(d.out) >= limit {
		return Done
	}
	return Continue
}

func (d *Detector) keepPreRoll(frame []float32) {
	limit := d.cfg.samples(d.cfg.PreRoll)
	if limit <= 0 {
		return
	}
	d.preRoll = append(d.preRoll, append([]float32(nil), frame...))
	d.preLen += len(frame)
	for d.preLen > limit && len(d.preRoll) > 1 {
		d.preLen -= len(d.preRoll[0])
		d.preRoll = d.preRoll[1:]
	}
}

// Speaking reports whether speech onset has been seen.
func (d *Detector) Speaking() bool { return d.speaking }

// Samples returns the captured phrase, including pre-roll.
func (d *Detector) Samples() []float32 { return d.out }
