// Package assistant is the voice-command engine: the command registry, the
// free-form reply table and the conversation loop that drives them.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voicecmd/internal/journal"
	"voicecmd/internal/speech"
)

// Listener turns one spoken utterance into text.
type Listener interface {
	Listen(ctx context.Context, timeout time.Duration) (string, error)
	Calibrate(ctx context.Context, d time.Duration) error
}

// Speaker says text aloud and returns once playback finished.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Notifier plays the short cue before a voice note is recorded.
type Notifier interface {
	Beep(ctx context.Context) error
}

// Host covers the system commands.
type Host interface {
	OpenTerminal(ctx context.Context) error
	CPUCount(ctx context.Context) (int, error)
}

// MessageLog stores voice notes.
type MessageLog interface {
	Append(message string) (journal.Entry, error)
}

// Deps are the collaborators an Assistant drives. All of them are required.
type Deps struct {
	Listener Listener
	Speaker  Speaker
	Notifier Notifier
	Host     Host
	Messages MessageLog
}

type Options struct {
	UserName      string
	AssistantName string

	ListenTimeout time.Duration
	RecordTimeout time.Duration
	Calibration   time.Duration
	Pause         time.Duration
}

func DefaultOptions() Options {
	return Options{
		UserName:      "liberman",
		AssistantName: "Claude",
		ListenTimeout: 5 * time.Second,
		RecordTimeout: 10 * time.Second,
		Calibration:   3 * time.Second,
		Pause:         100 * time.Millisecond,
	}
}

type Assistant struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
	now    func() time.Time

	registry *Registry
	replies  *Replies

	// conversation currently running, if any; the goodbye command ends it.
	session *Conversation
}

func New(deps Deps, opts Options, logger *slog.Logger) *Assistant {
	def := DefaultOptions()
	if opts.UserName == "" {
		opts.UserName = def.UserName
	}
	if opts.AssistantName == "" {
		opts.AssistantName = def.AssistantName
	}
	if opts.ListenTimeout <= 0 {
		opts.ListenTimeout = def.ListenTimeout
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = def.RecordTimeout
	}
	if opts.Calibration <= 0 {
		opts.Calibration = def.Calibration
	}
	if opts.Pause < 0 {
		opts.Pause = 0
	}

	a := &Assistant{
		deps:    deps,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		replies: defaultReplies(opts.AssistantName),
	}
	a.registry = NewRegistry(a.commands()...)
	return a
}

// Registry exposes the command table, mostly for help output.
func (a *Assistant) Registry() *Registry { return a.registry }

// Respond handles one utterance outside the exit check: the command
// registry first, then the reply table. Something is always said.
func (a *Assistant) Respond(ctx context.Context, text string) {
	handled, err := a.registry.Dispatch(ctx, text)
	if err != nil {
		a.logger.Error("command failed", "text", text, "err", err)
	}
	if handled {
		return
	}
	a.say(ctx, a.replies.Lookup(text))
}

// SingleCommand listens for one utterance and handles it.
func (a *Assistant) SingleCommand(ctx context.Context) error {
	a.say(ctx, sayListening)
	text, ok := a.listen(ctx, a.opts.ListenTimeout)
	if !ok {
		return ctx.Err()
	}
	a.Respond(ctx, text)
	return nil
}

func (a *Assistant) say(ctx context.Context, text string) {
	a.logger.Info("assistant", "text", text)
	if err := a.deps.Speaker.Speak(ctx, text); err != nil && ctx.Err() == nil {
		a.logger.Error("speak failed", "err", err)
	}
}

// listen returns the recognized text and whether there was any. Timeouts
// and unrecognized speech are routine; service errors are logged.
func (a *Assistant) listen(ctx context.Context, timeout time.Duration) (string, bool) {
	text, err := a.deps.Listener.Listen(ctx, timeout)
	var svc *speech.ServiceError
	switch {
	case err == nil:
		text = strings.TrimSpace(text)
		if text == "" {
			return "", false
		}
		a.logger.Info("user", "text", text)
		return text, true
	case ctx.Err() != nil:
	case speech.IsNoUtterance(err):
		a.logger.Debug("nothing heard", "err", err)
	case errors.As(err, &svc):
		a.logger.Error("speech service error", "service", svc.Service, "err", svc.Err)
	default:
		a.logger.Error("listen failed", "err", err)
	}
	return "", false
}

func isExit(text string) bool {
	return containsAny(text, ExitPhrases...)
}
