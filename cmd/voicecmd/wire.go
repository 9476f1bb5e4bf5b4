package main

import (
	"errors"
	"fmt"
	log "log/slog"
	"net/http"

	"voicecmd/internal/assistant"
	"voicecmd/internal/audio"
	"voicecmd/internal/audio/vad"
	"voicecmd/internal/config"
	"voicecmd/internal/journal"
	"voicecmd/internal/notify"
	"voicecmd/internal/stt"
	"voicecmd/internal/stt/whisper"
	"voicecmd/internal/system"
	"voicecmd/internal/tts"
	"voicecmd/internal/tts/espeak"
)

type source interface {
	stt.Capturer
	Name() string
	Init() error
	Close() error
}

// closers are released in reverse order of acquisition.
type closers []func() error

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			log.Warn("Failed to release", "err", err)
		}
	}
}

// micAvailable is false in noportaudio builds.
var micAvailable = audio.MicrophoneAvailable

func newSource(cfg *config.Config, logger *log.Logger) source {
	if cfg.Audio.Source == "microphone" && !micAvailable {
		logger.Warn("Built without microphone support, reading audio files instead", "dir", cfg.Audio.FileDir)
		return audio.NewFileSource(cfg.Audio.FileDir, logger)
	}
	if cfg.Audio.Source == "file" {
		return audio.NewFileSource(cfg.Audio.FileDir, logger)
	}
	vcfg := vad.DefaultConfig()
	vcfg.MinThreshold = cfg.Audio.MinThreshold
	vcfg.Pause = cfg.Audio.Pause
	vcfg.PhraseLimit = cfg.Audio.PhraseLimit
	return audio.NewRecorder(vcfg, logger)
}

func newTranscriber(cfg *config.Config, httpClient *http.Client) (stt.Transcriber, func() error, error) {
	noop := func() error { return nil }

	if cfg.STT.Provider == "whisper" {
		w, err := whisper.New(cfg.STT.WhisperModel, whisper.Options{Threads: cfg.STT.WhisperThreads})
		if err != nil {
			return nil, noop, fmt.Errorf("loading whisper model: %w", err)
		}
		return w, w.Close, nil
	}

	key := cfg.APIKey()
	switch cfg.STT.Provider {
	case "openai":
		if key == "" {
			return nil, noop, errors.New("OPENAI_API_KEY not set")
		}
		return stt.NewOpenAI(key, cfg.STT.OpenAIModel, httpClient), noop, nil
	default:
		if key == "" {
			return nil, noop, errors.New("GOOGLE_SPEECH_API_KEY not set")
		}
		return stt.NewGoogle(key, httpClient), noop, nil
	}
}

func newSpeaker(cfg *config.Config, logger *log.Logger) (assistant.Speaker, func() error, error) {
	if cfg.TTS.Engine == "espeak" {
		e := espeak.New(cfg.TTS.Voice, cfg.TTS.Rate)
		if err := e.Init(); err != nil {
			return nil, nil, fmt.Errorf("init espeak: %w", err)
		}
		return e, e.Close, nil
	}

	c := tts.NewCommand(tts.CommandConfig{
		Binary: cfg.TTS.Binary,
		Voice:  cfg.TTS.Voice,
		Rate:   cfg.TTS.Rate,
	}, logger)
	if !c.Available() {
		logger.Warn("TTS binary not found, speech will fail", "binary", cfg.TTS.Binary)
	}
	return c, func() error { return nil }, nil
}

func newNotifier(cfg *config.Config, logger *log.Logger) assistant.Notifier {
	if cfg.Notify.Disabled {
		return notify.Noop{}
	}
	return notify.NewBeeper(cfg.Notify.Sound, logger)
}

// build acquires every resource the assistant needs. The returned closers
// must be closed even when err is non-nil.
func build(cfg *config.Config, httpClient *http.Client, logger *log.Logger) (*assistant.Assistant, closers, error) {
	var cl closers

	src := newSource(cfg, logger)
	if err := src.Init(); err != nil {
		return nil, cl, fmt.Errorf("init %s: %w", src.Name(), err)
	}
	cl = append(cl, src.Close)
	logger.Debug("Loaded audio source", "source", src.Name())

	tr, closeTr, err := newTranscriber(cfg, httpClient)
	if err != nil {
		return nil, cl, err
	}
	cl = append(cl, closeTr)
	logger.Debug("Loaded recognizer", "provider", cfg.STT.Provider)

	opts := stt.ListenerOptions{
		Language:       cfg.Language,
		PreCalibration: cfg.Audio.PreCalibration,
	}
	if cfg.Audio.Duck.Enabled {
		opts.Ducker = audio.NewDucker(audio.DuckConfig{
			Factor:    cfg.Audio.Duck.Factor,
			MinVolume: cfg.Audio.Duck.MinVolume,
			Fade:      cfg.Audio.Duck.Fade,
			SelfNames: []string{"voicecmd"},
		}, logger)
	}
	listener := stt.NewListener(src, tr, opts, logger)

	speaker, closeSpeaker, err := newSpeaker(cfg, logger)
	if err != nil {
		return nil, cl, err
	}
	cl = append(cl, closeSpeaker)

	logPath, err := journal.DefaultPath(cfg.DataDir)
	if err != nil {
		return nil, cl, err
	}

	a := assistant.New(assistant.Deps{
		Listener: listener,
		Speaker:  speaker,
		Notifier: newNotifier(cfg, logger),
		Host:     system.New(logger),
		Messages: journal.New(logPath),
	}, assistantOptions(cfg), logger)
	return a, cl, nil
}

func assistantOptions(cfg *config.Config) assistant.Options {
	return assistant.Options{
		UserName:      cfg.UserName,
		AssistantName: cfg.AssistantName,
		ListenTimeout: cfg.Conversation.ListenTimeout,
		RecordTimeout: cfg.Conversation.RecordTimeout,
		Calibration:   cfg.Conversation.Calibration,
		Pause:         cfg.Conversation.Pause,
	}
}
