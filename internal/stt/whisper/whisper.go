//go:build whisper

// Package whisper is the offline recognizer backed by whisper.cpp.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	wcpp "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"voicecmd/internal/speech"
)

type Options struct {
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string // optional prefix prompt, e.g. expected command words
	BeamSize      int    // 0 = greedy
}

type Transcriber struct {
	model wcpp.Model
	opts  Options
}

func New(modelPath string, opts Options) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := wcpp.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m, opts: opts}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe runs the model over mono 16 kHz PCM.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if len(pcm) == 0 {
		return "", speech.ErrUnrecognized
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", speech.NewServiceError("whisper", fmt.Errorf("new context: %w", err))
	}

	lang, _, _ := strings.Cut(language, "-")
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(strings.ToLower(lang)); err != nil {
		return "", speech.NewServiceError("whisper", fmt.Errorf("set language: %w", err))
	}

	threads := t.opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))
	if t.opts.BeamSize > 0 {
		wctx.SetBeamSize(t.opts.BeamSize)
	}
	if t.opts.InitialPrompt != "" {
		wctx.SetInitialPrompt(t.opts.InitialPrompt)
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", speech.NewServiceError("whisper", fmt.Errorf("process: %w", err))
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", speech.NewServiceError("whisper", fmt.Errorf("next segment: %w", err))
		}
		if txt := strings.TrimSpace(s.Text); txt != "" {
			parts = append(parts, txt)
		}
	}

	if len(parts) == 0 {
		return "", speech.ErrUnrecognized
	}
	return strings.Join(parts, " "), nil
}
