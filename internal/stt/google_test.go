package stt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicecmd/internal/speech"
)

func newGoogleServer(t *testing.T, status int, body string, seen *recognizeRequest) *Google {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewGoogle("secret", srv.Client()).WithEndpoint(srv.URL)
}

func TestGoogleTranscribe(t *testing.T) {
	var req recognizeRequest
	g := newGoogleServer(t, http.StatusOK, `{"results":[
		{"alternatives":[{"transcript":"מה השעה","confidence":0.93}]},
		{"alternatives":[{"transcript":" עכשיו "}]}
	]}`, &req)

	text, err := g.Transcribe(context.Background(), []float32{0.1, -0.1, 0.2}, "he-IL")
	require.NoError(t, err)
	assert.Equal(t, "מה השעה עכשיו", text)

	assert.Equal(t, "LINEAR16", req.Config.Encoding)
	assert.Equal(t, 16000, req.Config.SampleRateHertz)
	assert.Equal(t, "he-IL", req.Config.LanguageCode)
	assert.Len(t, req.Audio.Content, 6)
}

func TestGoogleNoResults(t *testing.T) {
	g := newGoogleServer(t, http.StatusOK, `{}`, nil)

	_, err := g.Transcribe(context.Background(), []float32{0.1}, "he-IL")
	assert.ErrorIs(t, err, speech.ErrUnrecognized)
}

func TestGoogleEmptyAudio(t *testing.T) {
	g := NewGoogle("secret", nil)

	_, err := g.Transcribe(context.Background(), nil, "he-IL")
	assert.ErrorIs(t, err, speech.ErrUnrecognized)
}

func TestGoogleServiceError(t *testing.T) {
	g := newGoogleServer(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, nil)

	_, err := g.Transcribe(context.Background(), []float32{0.1}, "he-IL")
	require.Error(t, err)

	var se *speech.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "google", se.Service)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGoogleUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	g := NewGoogle("secret", nil).WithEndpoint(srv.URL)

	_, err := g.Transcribe(context.Background(), []float32{0.1}, "he-IL")
	var se *speech.ServiceError
	assert.ErrorAs(t, err, &se)
}
