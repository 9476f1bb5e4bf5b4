package main

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecmd/internal/audio"
	"voicecmd/internal/config"
	"voicecmd/internal/stt"
)

func TestNewTranscriberUsesProviderKey(t *testing.T) {
	cfg := config.Default()
	cfg.STT.Provider = "google"
	cfg.STT.GoogleAPIKey = "g-key"
	cfg.STT.OpenAIAPIKey = ""

	tr, closeTr, err := newTranscriber(cfg, http.DefaultClient)
	require.NoError(t, err)
	defer closeTr()
	assert.IsType(t, &stt.Google{}, tr)

	cfg.STT.Provider = "openai"
	_, _, err = newTranscriber(cfg, http.DefaultClient)
	assert.EqualError(t, err, "OPENAI_API_KEY not set")

	cfg.STT.OpenAIAPIKey = "sk-key"
	tr, _, err = newTranscriber(cfg, http.DefaultClient)
	require.NoError(t, err)
	assert.IsType(t, &stt.OpenAI{}, tr)
}

func TestNewTranscriberMissingGoogleKey(t *testing.T) {
	cfg := config.Default()
	cfg.STT.Provider = "google"
	cfg.STT.GoogleAPIKey = ""

	_, _, err := newTranscriber(cfg, http.DefaultClient)
	assert.EqualError(t, err, "GOOGLE_SPEECH_API_KEY not set")
}

func TestNewSource(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	cfg := config.Default()

	src := newSource(cfg, logger)
	if audio.MicrophoneAvailable {
		assert.IsType(t, &audio.Recorder{}, src)
	}

	cfg.Audio.Source = "file"
	assert.IsType(t, &audio.FileSource{}, newSource(cfg, logger))
}

func TestNewSourceWithoutMicrophone(t *testing.T) {
	saved := micAvailable
	micAvailable = false
	defer func() { micAvailable = saved }()

	cfg := config.Default()
	cfg.Audio.Source = "microphone"

	src := newSource(cfg, slog.New(slog.DiscardHandler))
	assert.Equal(t, "file", src.Name())
}
