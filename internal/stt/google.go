package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voicecmd/internal/speech"
	"voicecmd/pkg/audioconv"
)

const googleEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// Google calls the Cloud Speech-to-Text v1 REST API.
type Google struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewGoogle(apiKey string, httpClient *http.Client) *Google {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Google{
		apiKey:     apiKey,
		endpoint:   googleEndpoint,
		httpClient: httpClient,
	}
}

// WithEndpoint overrides the recognize URL.
func (g *Google) WithEndpoint(endpoint string) *Google {
	g.endpoint = endpoint
	return g
}

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
	MaxAlternatives int    `json:"maxAlternatives"`
}

type recognitionAudio struct {
	Content []byte `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (g *Google) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if len(pcm) == 0 {
		return "", speech.ErrUnrecognized
	}

	body, err := json.Marshal(recognizeRequest{
		Config: recognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: audioconv.SampleRate,
			LanguageCode:    language,
			MaxAlternatives: 1,
		},
		Audio: recognitionAudio{Content: audioconv.EncodeLinear16(pcm)},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := g.endpoint + "?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", speech.NewServiceError("google", fmt.Errorf("sending request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ge googleError
		if json.Unmarshal(raw, &ge) == nil && ge.Error.Message != "" {
			return "", speech.NewServiceError("google",
				fmt.Errorf("status %d %s: %s", resp.StatusCode, ge.Error.Status, ge.Error.Message))
		}
		return "", speech.NewServiceError("google", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", speech.NewServiceError("google", fmt.Errorf("decoding response: %w", err))
	}

	var parts []string
	for _, r := range out.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", speech.ErrUnrecognized
	}
	return strings.Join(parts, " "), nil
}

var _ Transcriber = (*Google)(nil)

