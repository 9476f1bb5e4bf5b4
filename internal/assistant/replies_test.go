package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepliesLookup(t *testing.T) {
	r := defaultReplies("Claude")

	tests := []struct {
		text string
		want string
	}{
		{"איך אתה היום", "אני מצוין, תודה שאתה שואל!"},
		{"מי אתה בעצם", "אני Claude, העוזר הדיגיטלי שלך"},
		{"נו, מה נשמע", "הכל טוב! עובד קשה כדי לעזור לך"},
		{"מה אתה יכול לעשות", "אני יכול לעזור עם הרבה דברים - פקודות מערכת, מידע, ושיחה נעימה"},
		{"ספר לי על מזג האוויר", FallbackReply},
		{"", FallbackReply},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Lookup(tt.text))
		})
	}
}

func TestRespondNeverSilent(t *testing.T) {
	h := newHarness(t)

	for _, text := range []string{"בלה בלה", "xyz", "מי אתה"} {
		before := len(h.speaker.said)
		h.a.Respond(context.Background(), text)
		require.Len(t, h.speaker.said, before+1, text)
		assert.NotEmpty(t, h.speaker.last())
	}
}

func TestRespondPrefersCommands(t *testing.T) {
	h := newHarness(t)

	// "תודה" is a command even though the reply table could answer too.
	h.a.Respond(context.Background(), "תודה, מה נשמע")

	assert.Equal(t, []string{sayThanks}, h.speaker.said)
}
