// Package stt turns captured audio into text through a recognition
// service and combines capture + recognition into a single Listen call.
package stt

import (
	"context"
	"strings"
)

// Transcriber converts mono 16 kHz PCM into text. Implementations return
// speech.ErrUnrecognized when the service produced no transcript and a
// *speech.ServiceError when the service itself failed.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32, language string) (string, error)
}

// baseLanguage turns a BCP-47 tag such as "he-IL" into "he".
func baseLanguage(tag string) string {
	base, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(base)
}
