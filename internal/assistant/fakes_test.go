package assistant

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"voicecmd/internal/journal"
	"voicecmd/internal/speech"
)

type result struct {
	text string
	err  error
}

func heard(text string) result { return result{text: text} }

var (
	silence      = result{err: speech.ErrCaptureTimeout}
	unrecognized = result{err: speech.ErrUnrecognized}
)

type fakeListener struct {
	script       []result
	timeouts     []time.Duration
	calibrations []time.Duration
	calErr       error

	// exhausted is called when the script runs out.
	exhausted func()
}

func (f *fakeListener) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	f.timeouts = append(f.timeouts, timeout)
	if len(f.script) == 0 {
		if f.exhausted != nil {
			f.exhausted()
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", speech.ErrCaptureTimeout
	}
	r := f.script[0]
	f.script = f.script[1:]
	return r.text, r.err
}

func (f *fakeListener) Calibrate(_ context.Context, d time.Duration) error {
	f.calibrations = append(f.calibrations, d)
	return f.calErr
}

type fakeSpeaker struct {
	said []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.said = append(f.said, text)
	return nil
}

func (f *fakeSpeaker) last() string {
	if len(f.said) == 0 {
		return ""
	}
	return f.said[len(f.said)-1]
}

type fakeNotifier struct {
	beeps int
}

func (f *fakeNotifier) Beep(context.Context) error {
	f.beeps++
	return nil
}

type fakeHost struct {
	opened      int
	terminalErr error
	cpus        int
	cpuErr      error
}

func (f *fakeHost) OpenTerminal(context.Context) error {
	f.opened++
	return f.terminalErr
}

func (f *fakeHost) CPUCount(context.Context) (int, error) {
	return f.cpus, f.cpuErr
}

type harness struct {
	a        *Assistant
	listener *fakeListener
	speaker  *fakeSpeaker
	notifier *fakeNotifier
	host     *fakeHost
	log      *journal.Log
}

func newHarness(t *testing.T, script ...result) *harness {
	t.Helper()

	h := &harness{
		listener: &fakeListener{script: script},
		speaker:  &fakeSpeaker{},
		notifier: &fakeNotifier{},
		host:     &fakeHost{cpus: 8},
		log:      journal.New(t.TempDir() + "/messages.jsonl"),
	}
	opts := DefaultOptions()
	opts.Pause = 0
	h.a = New(Deps{
		Listener: h.listener,
		Speaker:  h.speaker,
		Notifier: h.notifier,
		Host:     h.host,
		Messages: h.log,
	}, opts, slog.New(slog.DiscardHandler))
	return h
}

func (h *harness) at(hour, minute int) {
	h.a.now = func() time.Time {
		return time.Date(2024, time.March, 5, hour, minute, 0, 0, time.Local)
	}
}
