package stt

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voicecmd/internal/speech"
	"voicecmd/pkg/audioconv"
)

// OpenAI transcribes through the OpenAI audio transcription endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, httpClient *http.Client, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	base := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		base = append(base, option.WithHTTPClient(httpClient))
	}
	return &OpenAI{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (o *OpenAI) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if len(pcm) == 0 {
		return "", speech.ErrUnrecognized
	}

	wav, err := audioconv.EncodeWAV(pcm, audioconv.SampleRate)
	if err != nil {
		return "", fmt.Errorf("encoding wav: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wav), "utterance.wav", "audio/wav"),
		Model: openai.AudioModel(o.model),
	}
	if lang := baseLanguage(language); lang != "" {
		params.Language = openai.String(lang)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", speech.NewServiceError("openai", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", speech.ErrUnrecognized
	}
	return text, nil
}

var _ Transcriber = (*OpenAI)(nil)
