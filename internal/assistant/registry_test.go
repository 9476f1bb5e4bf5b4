package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(calls *[]string, name string) HandlerFunc {
	return func(context.Context) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestRegistryFirstMatchWins(t *testing.T) {
	var calls []string
	r := NewRegistry(
		Command{Trigger: "מה", Run: record(&calls, "short")},
		Command{Trigger: "מה השעה", Run: record(&calls, "long")},
	)

	handled, err := r.Dispatch(context.Background(), "מה השעה עכשיו")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, []string{"short"}, calls)
}

func TestRegistryUnhandled(t *testing.T) {
	var calls []string
	r := NewRegistry(Command{Trigger: "עזרה", Run: record(&calls, "help")})

	handled, err := r.Dispatch(context.Background(), "משהו אחר לגמרי")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, calls)
}

func TestRegistryNormalizesInput(t *testing.T) {
	var calls []string
	r := NewRegistry(
		Command{Trigger: "Hello", Run: record(&calls, "hello")},
		Command{Trigger: "caf\u00e9", Run: record(&calls, "cafe")},
	)

	_, err := r.Dispatch(context.Background(), "  HELLO there ")
	require.NoError(t, err)
	_, err = r.Dispatch(context.Background(), "to the cafe\u0301")
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "cafe"}, calls)
}

func TestRegistryHandlerFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(Command{Trigger: "פתח", Run: func(context.Context) error { return boom }})

	handled, err := r.Dispatch(context.Background(), "פתח טרמינל")
	assert.True(t, handled)

	var he *HandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "פתח", he.Trigger)
	assert.ErrorIs(t, err, boom)
}

func TestDefaultCommandOrder(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, []string{
		TriggerHello,
		TriggerTime,
		TriggerTerminal,
		TriggerSystem,
		TriggerRecord,
		TriggerHelp,
		TriggerThanks,
		TriggerBye,
	}, h.a.Registry().Triggers())
}

func TestOverlappingDefaultTriggers(t *testing.T) {
	h := newHarness(t)
	h.at(9, 30)

	h.a.Respond(context.Background(), "שלום, מה השעה?")

	require.Len(t, h.speaker.said, 1)
	assert.Equal(t, "בוקר טוב liberman! איך אני יכול לעזור?", h.speaker.said[0])
}
