package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("GOOGLE_SPEECH_API_KEY", "g-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "liberman", cfg.UserName)
	assert.Equal(t, "he-IL", cfg.Language)
	assert.Equal(t, "~/.claude-voice", cfg.DataDir)
	assert.Equal(t, "microphone", cfg.Audio.Source)
	assert.Equal(t, time.Second, cfg.Audio.PreCalibration)
	assert.Equal(t, "google", cfg.STT.Provider)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, 170, cfg.TTS.Rate)
	assert.Equal(t, 5*time.Second, cfg.Conversation.ListenTimeout)
	assert.Equal(t, 10*time.Second, cfg.Conversation.RecordTimeout)
	assert.Equal(t, 3*time.Second, cfg.Conversation.Calibration)
	assert.Equal(t, 100*time.Millisecond, cfg.Conversation.Pause)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("VOICECMD_TEST_KEY", "sk-test")

	path := writeConfig(t, `
user_name: dana
stt:
  provider: openai
  openai_api_key: ${VOICECMD_TEST_KEY}
conversation:
  listen_timeout: 7s
  pause: 250ms
audio:
  source: file
  file_dir: /tmp/drop
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dana", cfg.UserName)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, 7*time.Second, cfg.Conversation.ListenTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Conversation.Pause)
	assert.Equal(t, 10*time.Second, cfg.Conversation.RecordTimeout)
	assert.Equal(t, "file", cfg.Audio.Source)
	assert.Equal(t, "/tmp/drop", cfg.Audio.FileDir)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "stt:\n  provider: carrier-pigeon\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "stt.provider")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "user_name: [unterminated\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestWhisperNeedsNoKey(t *testing.T) {
	cfg := Default()
	cfg.STT.Provider = "whisper"
	assert.Empty(t, cfg.APIKey())
}

func TestExampleConfig(t *testing.T) {
	t.Setenv("GOOGLE_SPEECH_API_KEY", "from-env")

	cfg, err := Load("../../voicecmd.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey())
	assert.Equal(t, 15*time.Second, cfg.Audio.PhraseLimit)
	assert.Equal(t, 10, cfg.Audio.Duck.MinVolume)
	assert.Equal(t, "ws://localhost:8092", cfg.Bus.URL)
}

func TestLoadKeepsExplicitZero(t *testing.T) {
	path := writeConfig(t, `
audio:
  pre_calibration: 0s
conversation:
  pause: 0s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.Audio.PreCalibration)
	assert.Zero(t, cfg.Conversation.Pause)
	assert.Equal(t, 800*time.Millisecond, cfg.Audio.Pause)
	assert.Equal(t, 5*time.Second, cfg.Conversation.ListenTimeout)
}
