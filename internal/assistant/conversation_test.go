package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecmd/internal/speech"
)

type transition struct {
	from, to State
}

func track(c *Conversation) *[]transition {
	var got []transition
	c.OnTransition(func(from, to State) {
		got = append(got, transition{from, to})
	})
	return &got
}

func TestConversationImmediateExit(t *testing.T) {
	for _, phrase := range ExitPhrases {
		t.Run(phrase, func(t *testing.T) {
			h := newHarness(t, heard(phrase))
			c := h.a.NewConversation()
			got := track(c)

			require.NoError(t, c.Run(context.Background()))

			assert.Equal(t, []transition{
				{Idle, Listening},
				{Listening, Dispatching},
				{Dispatching, Terminated},
			}, *got)
			assert.Equal(t, Terminated, c.State())
			assert.False(t, c.Active())

			assert.Equal(t, []string{
				"שלום liberman, אני כאן לשיחה. אמור ביי כדי לסיים",
				"להתראות liberman, יום נעים!",
			}, h.speaker.said)
			assert.Zero(t, h.host.opened)
			assert.Zero(t, h.notifier.beeps)
		})
	}
}

func TestConversationExitBeforeCommands(t *testing.T) {
	h := newHarness(t, heard("שלום וביי"))

	require.NoError(t, h.a.Converse(context.Background()))

	assert.Equal(t, "להתראות liberman, יום נעים!", h.speaker.last())
	assert.Len(t, h.speaker.said, 2)
}

func TestConversationTimeoutsKeepListening(t *testing.T) {
	h := newHarness(t, silence, unrecognized, heard("ביי"))
	c := h.a.NewConversation()

	var states []State
	var active []bool
	c.OnTransition(func(from, to State) {
		states = append(states, to)
		active = append(active, c.Active())
	})

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []State{Listening, Listening, Listening, Dispatching, Terminated}, states)
	assert.Equal(t, []bool{true, true, true, true, false}, active)
}

func TestConversationServiceErrorContinues(t *testing.T) {
	failure := result{err: speech.NewServiceError("google", errors.New("503"))}
	h := newHarness(t, failure, heard("מה נשמע"), heard("להתראות"))

	require.NoError(t, h.a.Converse(context.Background()))

	assert.Equal(t, []string{
		"שלום liberman, אני כאן לשיחה. אמור ביי כדי לסיים",
		"הכל טוב! עובד קשה כדי לעזור לך",
		"להתראות liberman, יום נעים!",
	}, h.speaker.said)
}

func TestConversationDispatchesThenListens(t *testing.T) {
	h := newHarness(t, heard("מה השעה"), heard("משהו"), heard("ביי"))
	h.at(21, 45)
	c := h.a.NewConversation()
	got := track(c)

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []transition{
		{Idle, Listening},
		{Listening, Dispatching},
		{Dispatching, Listening},
		{Listening, Dispatching},
		{Dispatching, Listening},
		{Listening, Dispatching},
		{Dispatching, Terminated},
	}, *got)
	assert.Equal(t, []string{
		"שלום liberman, אני כאן לשיחה. אמור ביי כדי לסיים",
		"השעה עכשיו 21:45",
		FallbackReply,
		"להתראות liberman, יום נעים!",
	}, h.speaker.said)
}

func TestConversationStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(t, silence)
	h.listener.exhausted = cancel
	c := h.a.NewConversation()

	err := c.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Active())
	assert.Len(t, h.listener.timeouts, 2)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "listening", Listening.String())
	assert.Equal(t, "dispatching", Dispatching.String())
	assert.Equal(t, "terminated", Terminated.String())
	assert.Equal(t, "unknown", State(42).String())
}
