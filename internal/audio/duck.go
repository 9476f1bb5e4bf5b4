package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

const maxVolume = 150

type sinkInput struct {
	ID      int
	Volume  int
	AppName string
}

type fadeStep struct {
	id   int
	from int
	to   int
}

type runFunc func(ctx context.Context, args ...string) ([]byte, error)

func runPactl(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "pactl", args...).Output()
}

// DuckConfig controls how other playback streams are lowered while the
// microphone is open.
type DuckConfig struct {
	Factor    float64       // target = current * Factor
	MinVolume int           // never duck below this percentage
	Fade      time.Duration // 0 = jump straight to the target
	SelfNames []string      // application.name values left untouched
}

// Ducker lowers the volume of other PulseAudio sink inputs during capture
// and restores them afterwards.
type Ducker struct {
	cfg    DuckConfig
	run    runFunc
	logger *slog.Logger

	mu       sync.Mutex
	active   bool
	original map[int]int
}

func NewDucker(cfg DuckConfig, logger *slog.Logger) *Ducker {
	if cfg.MinVolume < 0 {
		cfg.MinVolume = 0
	}
	if cfg.MinVolume > maxVolume {
		cfg.MinVolume = maxVolume
	}
	return &Ducker{
		cfg:      cfg,
		run:      runPactl,
		logger:   logger,
		original: make(map[int]int),
	}
}

// Duck fades every foreign stream down. Calling it twice is a no-op.
func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	inputs, err := d.list(ctx)
	if err != nil {
		return err
	}

	d.original = make(map[int]int)
	var steps []fadeStep
	for _, in := range inputs {
		if d.isSelf(in) {
			continue
		}
		target := float64(in.Volume) * d.cfg.Factor
		target = math.Max(target, float64(d.cfg.MinVolume))
		target = math.Min(target, maxVolume)

		d.original[in.ID] = in.Volume
		steps = append(steps, fadeStep{id: in.ID, from: in.Volume, to: int(math.Round(target))})
	}

	if err := d.fade(ctx, steps); err != nil {
		return err
	}

	d.logger.Debug("ducked streams", "count", len(steps))
	d.active = true
	return nil
}

// Restore fades ducked streams back to their original volume. Streams that
// appeared after Duck are left alone.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	inputs, err := d.list(ctx)
	if err != nil {
		return err
	}

	var steps []fadeStep
	for _, in := range inputs {
		orig, ok := d.original[in.ID]
		if !ok || d.isSelf(in) {
			continue
		}
		steps = append(steps, fadeStep{id: in.ID, from: in.Volume, to: orig})
	}

	if err := d.fade(ctx, steps); err != nil {
		return err
	}

	d.original = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isSelf(in sinkInput) bool {
	for _, name := range d.cfg.SelfNames {
		if in.AppName == name {
			return true
		}
	}
	return false
}

func (d *Ducker) list(ctx context.Context) ([]sinkInput, error) {
	out, err := d.run(ctx, "list", "sink-inputs")
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func (d *Ducker) setVolume(ctx context.Context, id, percent int) error {
	percent = max(0, min(percent, maxVolume))
	_, err := d.run(ctx, "set-sink-input-volume", strconv.Itoa(id), fmt.Sprintf("%d%%", percent))
	if err != nil {
		return fmt.Errorf("set volume id=%d: %w", id, err)
	}
	return nil
}

func (d *Ducker) fade(ctx context.Context, steps []fadeStep) error {
	if len(steps) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond

	n := int(d.cfg.Fade / minStep)
	if n < 1 {
		for _, s := range steps {
			if err := d.setVolume(ctx, s.id, s.to); err != nil {
				return err
			}
		}
		return nil
	}
	interval := d.cfg.Fade / time.Duration(n)

	for i := 0; i <= n; i++ {
		frac := float64(i) / float64(n)
		for _, s := range steps {
			v := float64(s.from) + float64(s.to-s.from)*frac
			if err := d.setVolume(ctx, s.id, int(math.Round(v))); err != nil {
				return err
			}
		}

		if i < n {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return nil
}

func parseSinkInputs(text string) []sinkInput {
	parts := strings.Split(text, "Sink Input #")
	var res []sinkInput

	for _, block := range parts[1:] {
		nl := strings.IndexByte(block, '\n')
		if nl <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:nl]))
		if err != nil {
			continue
		}

		in := sinkInput{ID: id}
		for _, line := range strings.Split(block[nl+1:], "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && in.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) == 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						in.Volume = v
					}
				}
			}

			if strings.HasPrefix(line, "application.name =") && in.AppName == "" {
				if name, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "application.name ="))); err == nil {
					in.AppName = name
				}
			}
		}

		if in.Volume == 0 && in.AppName == "" {
			continue
		}
		res = append(res, in)
	}
	return res
}
