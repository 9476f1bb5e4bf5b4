package assistant

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// HandlerFunc runs a command. Side effects (speech, shelling out, the
// message log) all happen inside the handler.
type HandlerFunc func(ctx context.Context) error

// Command binds a trigger phrase to its handler.
type Command struct {
	Trigger string
	Run     HandlerFunc
}

// HandlerError reports a failed command. It is logged, never fatal.
type HandlerError struct {
	Trigger string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Trigger, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Registry is an ordered, immutable command table. Lookup is substring
// containment and the first entry in declaration order wins, even when a
// later trigger is a longer match.
type Registry struct {
	commands []Command
	keys     []string
}

func NewRegistry(commands ...Command) *Registry {
	r := &Registry{
		commands: append([]Command(nil), commands...),
		keys:     make([]string, len(commands)),
	}
	for i, c := range commands {
		r.keys[i] = normalize(c.Trigger)
	}
	return r
}

// Match returns the first command whose trigger occurs in text.
func (r *Registry) Match(text string) (Command, bool) {
	t := normalize(text)
	for i, key := range r.keys {
		if key != "" && strings.Contains(t, key) {
			return r.commands[i], true
		}
	}
	return Command{}, false
}

// Dispatch runs the matching command. handled is false when no trigger
// matched; that is a normal outcome for the caller to fall back on.
func (r *Registry) Dispatch(ctx context.Context, text string) (handled bool, err error) {
	cmd, ok := r.Match(text)
	if !ok {
		return false, nil
	}
	if err := cmd.Run(ctx); err != nil {
		return true, &HandlerError{Trigger: cmd.Trigger, Err: err}
	}
	return true, nil
}

// Triggers lists trigger phrases in declaration order.
func (r *Registry) Triggers() []string {
	out := make([]string, len(r.commands))
	for i, c := range r.commands {
		out[i] = c.Trigger
	}
	return out
}

// normalize folds case and composes Unicode so that recognizer output with
// decomposed marks still matches the trigger tables.
func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

func containsAny(text string, phrases ...string) bool {
	t := normalize(text)
	for _, p := range phrases {
		if strings.Contains(t, normalize(p)) {
			return true
		}
	}
	return false
}
