package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	UserName      string `yaml:"user_name"`
	AssistantName string `yaml:"assistant_name"`
	Language      string `yaml:"language"`
	DataDir       string `yaml:"data_dir"`

	Audio        AudioConfig        `yaml:"audio"`
	STT          STTConfig          `yaml:"stt"`
	TTS          TTSConfig          `yaml:"tts"`
	Notify       NotifyConfig       `yaml:"notify"`
	Conversation ConversationConfig `yaml:"conversation"`
	Bus          BusConfig          `yaml:"bus"`
	Log          LogConfig          `yaml:"log"`
}

type AudioConfig struct {
	Source         string        `yaml:"source"` // microphone | file
	FileDir        string        `yaml:"file_dir"`
	PreCalibration time.Duration `yaml:"pre_calibration"`
	MinThreshold   float64       `yaml:"min_threshold"`
	Pause          time.Duration `yaml:"pause"`
	PhraseLimit    time.Duration `yaml:"phrase_limit"`
	Duck           DuckConfig    `yaml:"duck"`
}

type DuckConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Factor    float64       `yaml:"factor"`
	MinVolume int           `yaml:"min_volume"`
	Fade      time.Duration `yaml:"fade"`
}

type STTConfig struct {
	Provider       string        `yaml:"provider"` // google | openai | whisper
	GoogleAPIKey   string        `yaml:"google_api_key"`
	OpenAIAPIKey   string        `yaml:"openai_api_key"`
	OpenAIModel    string        `yaml:"openai_model"`
	WhisperModel   string        `yaml:"whisper_model"`
	WhisperThreads int           `yaml:"whisper_threads"`
	Proxy          string        `yaml:"proxy"`
	Timeout        time.Duration `yaml:"timeout"`
}

type TTSConfig struct {
	Engine string `yaml:"engine"` // command | espeak
	Binary string `yaml:"binary"`
	Voice  string `yaml:"voice"`
	Rate   int    `yaml:"rate"`
}

type NotifyConfig struct {
	Disabled bool   `yaml:"disabled"`
	Sound    string `yaml:"sound"` // empty = synthesized tone
}

type ConversationConfig struct {
	ListenTimeout time.Duration `yaml:"listen_timeout"`
	RecordTimeout time.Duration `yaml:"record_timeout"`
	Calibration   time.Duration `yaml:"calibration"`
	Pause         time.Duration `yaml:"pause"`
}

type BusConfig struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	cfg.applyEnv()
	return &cfg
}

// Load reads a YAML file, expanding ${VAR} references from the environment.
// A missing file is not an error: the defaults apply. Keys present in the
// file override defaults even when zero, so `pause: 0s` disables the pause.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	cfg.setDefaults()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.UserName == "" {
		c.UserName = "liberman"
	}
	if c.AssistantName == "" {
		c.AssistantName = "Claude"
	}
	if c.Language == "" {
		c.Language = "he-IL"
	}
	if c.DataDir == "" {
		c.DataDir = "~/.claude-voice"
	}

	if c.Audio.Source == "" {
		c.Audio.Source = "microphone"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.PreCalibration == 0 {
		c.Audio.PreCalibration = time.Second
	}
	if c.Audio.MinThreshold == 0 {
		c.Audio.MinThreshold = 0.015
	}
	if c.Audio.Pause == 0 {
		c.Audio.Pause = 800 * time.Millisecond
	}
	if c.Audio.PhraseLimit == 0 {
		c.Audio.PhraseLimit = 15 * time.Second
	}
	if c.Audio.Duck.Factor == 0 {
		c.Audio.Duck.Factor = 0.3
	}
	if c.Audio.Duck.Fade == 0 {
		c.Audio.Duck.Fade = 150 * time.Millisecond
	}

	if c.STT.Provider == "" {
		c.STT.Provider = "google"
	}
	if c.STT.WhisperModel == "" {
		c.STT.WhisperModel = "models/ggml-medium.bin"
	}
	if c.STT.Timeout == 0 {
		c.STT.Timeout = 30 * time.Second
	}

	if c.TTS.Engine == "" {
		c.TTS.Engine = "command"
	}
	if c.TTS.Voice == "" {
		c.TTS.Voice = "he"
	}
	if c.TTS.Rate == 0 {
		c.TTS.Rate = 170
	}

	if c.Conversation.ListenTimeout == 0 {
		c.Conversation.ListenTimeout = 5 * time.Second
	}
	if c.Conversation.RecordTimeout == 0 {
		c.Conversation.RecordTimeout = 10 * time.Second
	}
	if c.Conversation.Calibration == 0 {
		c.Conversation.Calibration = 3 * time.Second
	}
	if c.Conversation.Pause == 0 {
		c.Conversation.Pause = 100 * time.Millisecond
	}

	if c.Bus.URL == "" {
		c.Bus.URL = "ws://localhost:8092"
	}
	if c.Bus.Name == "" {
		c.Bus.Name = "voicecmd"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// applyEnv fills API keys the file left empty.
func (c *Config) applyEnv() {
	if c.STT.GoogleAPIKey == "" {
		c.STT.GoogleAPIKey = os.Getenv("GOOGLE_SPEECH_API_KEY")
	}
	if c.STT.OpenAIAPIKey == "" {
		c.STT.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func (c *Config) validate() error {
	switch c.Audio.Source {
	case "microphone", "file":
	default:
		return fmt.Errorf("audio.source: unknown source %q", c.Audio.Source)
	}
	switch c.STT.Provider {
	case "google", "openai", "whisper":
	default:
		return fmt.Errorf("stt.provider: unknown provider %q", c.STT.Provider)
	}
	switch c.TTS.Engine {
	case "command", "espeak":
	default:
		return fmt.Errorf("tts.engine: unknown engine %q", c.TTS.Engine)
	}
	return nil
}

// APIKey returns the key for the configured cloud provider, empty for the
// local recognizer.
func (c *Config) APIKey() string {
	switch c.STT.Provider {
	case "google":
		return c.STT.GoogleAPIKey
	case "openai":
		return c.STT.OpenAIAPIKey
	}
	return ""
}
