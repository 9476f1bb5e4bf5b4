package assistant

import (
	"context"
	"time"
)

type State int

const (
	Idle State = iota
	Listening
	Dispatching
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Dispatching:
		return "dispatching"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Conversation is one run of conversation mode. It is strictly sequential:
// listen, handle, pause, repeat until an exit phrase or the context ends.
type Conversation struct {
	a      *Assistant
	state  State
	active bool

	onTransition func(from, to State)
}

func (a *Assistant) NewConversation() *Conversation {
	return &Conversation{a: a, state: Idle}
}

func (c *Conversation) State() State { return c.state }

// Active reports whether the session is still running.
func (c *Conversation) Active() bool { return c.active }

// OnTransition registers fn to be called on every state change, including
// Listening to Listening after an empty capture.
func (c *Conversation) OnTransition(fn func(from, to State)) {
	c.onTransition = fn
}

func (c *Conversation) set(to State) {
	from := c.state
	c.state = to
	c.a.logger.Debug("conversation", "from", from, "state", to)
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

// Run speaks the greeting and loops until the user says an exit phrase.
// The only error returned is the context's.
func (c *Conversation) Run(ctx context.Context) error {
	a := c.a
	a.session = c
	defer func() { a.session = nil }()

	c.active = true
	c.set(Listening)
	a.say(ctx, conversationGreeting(a.opts.UserName))

	for c.active {
		if err := ctx.Err(); err != nil {
			c.active = false
			return err
		}

		text, ok := a.listen(ctx, a.opts.ListenTimeout)
		if !ok {
			if err := ctx.Err(); err != nil {
				c.active = false
				return err
			}
			c.set(Listening)
		} else {
			c.set(Dispatching)
			if isExit(text) {
				_ = a.goodbye(ctx)
			} else {
				a.Respond(ctx, text)
			}
			if !c.active {
				c.set(Terminated)
				return nil
			}
			c.set(Listening)
		}

		if err := pause(ctx, a.opts.Pause); err != nil {
			c.active = false
			return err
		}
	}
	c.set(Terminated)
	return nil
}

// Converse runs a fresh conversation.
func (a *Assistant) Converse(ctx context.Context) error {
	return a.NewConversation().Run(ctx)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
