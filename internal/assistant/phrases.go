package assistant

import (
	"fmt"
	"strings"
)

// Trigger phrases, in registry declaration order.
const (
	TriggerHello    = "שלום"
	TriggerTime     = "מה השעה"
	TriggerTerminal = "פתח טרמינל"
	TriggerSystem   = "בדוק מערכת"
	TriggerRecord   = "הקלט הודעה"
	TriggerHelp     = "עזרה"
	TriggerThanks   = "תודה"
	TriggerBye      = "ביי"
)

// ExitPhrases end conversation mode before any command lookup.
var ExitPhrases = []string{"ביי", "להתראות"}

// ConfirmWord is the answer the audio self-test waits for.
const ConfirmWord = "כן"

const (
	sayGoodMorning   = "בוקר טוב"
	sayGoodAfternoon = "צהריים טובים"
	sayGoodEvening   = "ערב טוב"

	sayOpeningTerminal = "פותח טרמינל..."
	sayCheckingSystem  = "בודק את המערכת..."
	sayRecordPrompt    = "אני מקשיב, דבר אחרי הצפצוף"
	sayRecordSaved     = "ההודעה נשמרה בהצלחה"
	sayRecordFailed    = "לא הצלחתי להקליט את ההודעה"
	sayThanks          = "בכיף! תמיד כאן בשבילך"
	sayListening       = "אני מקשיב..."

	sayCalibrating     = "מכייל את המיקרופון, אנא המתן..."
	sayCalibrated      = "הכיול הושלם. עכשיו אני שומע אותך טוב יותר"
	sayTestingAudio    = "בודק את מערכת השמע..."
	sayTestPrompt      = "אם אתה שומע אותי, אמור " + ConfirmWord
	sayTestPassed      = "מצוין! המערכת עובדת כמו שצריך"
	sayTestRecalibrate = "נראה שיש בעיה. בוא ננסה לכייל מחדש"

	// FallbackReply answers anything no command or reply key matched.
	FallbackReply = "מעניין, ספר לי עוד"
)

var helpLines = []string{
	"אני יכול לעזור לך עם:",
	"אמור שלום לברכה",
	"שאל מה השעה",
	"בקש לפתוח טרמינל",
	"בקש בדיקת מערכת",
	"בקש להקליט הודעה",
}

func helpText() string {
	return strings.Join(helpLines, "\n")
}

func conversationGreeting(user string) string {
	return fmt.Sprintf("שלום %s, אני כאן לשיחה. אמור ביי כדי לסיים", user)
}

func farewell(user string) string {
	return fmt.Sprintf("להתראות %s, יום נעים!", user)
}

func timeAnnouncement(hhmm string) string {
	return "השעה עכשיו " + hhmm
}

func systemReport(cpus int) string {
	return fmt.Sprintf("המערכת תקינה. יש %d ליבות מעבד.", cpus)
}

func defaultReplies(assistantName string) *Replies {
	return NewReplies(FallbackReply,
		Reply{Key: "איך אתה", Response: "אני מצוין, תודה שאתה שואל!"},
		Reply{Key: "מה אתה יכול", Response: "אני יכול לעזור עם הרבה דברים - פקודות מערכת, מידע, ושיחה נעימה"},
		Reply{Key: "מי אתה", Response: fmt.Sprintf("אני %s, העוזר הדיגיטלי שלך", assistantName)},
		Reply{Key: "מה נשמע", Response: "הכל טוב! עובד קשה כדי לעזור לך"},
	)
}
