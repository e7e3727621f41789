// internal/speech/speech_test.go
package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ana-voicebot/internal/common/errors"
	commonhttp "ana-voicebot/internal/common/http"
	"ana-voicebot/internal/common/logger"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "es", r.FormValue("language"))
		_, _, err := r.FormFile("audio")
		require.NoError(t, err)
		w.Write([]byte(`{"text": "hola buenos días"}`))
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(server.URL, "es", commonhttp.NewClient(5*time.Second), logger.NewTestLogger(t))
	text, err := tr.Transcribe(context.Background(), []byte("fake-audio"), "turn.wav")
	require.NoError(t, err)
	assert.Equal(t, "hola buenos días", text)
}

func TestTranscribeNoSpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "  "}`))
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(server.URL, "es", commonhttp.NewClient(5*time.Second), logger.NewTestLogger(t))
	_, err := tr.Transcribe(context.Background(), []byte("silence"), "turn.wav")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSTTNoSpeech))
}

func TestTranscribeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := NewHTTPTranscriber(server.URL, "es", commonhttp.NewClient(5*time.Second), logger.NewTestLogger(t))
	_, err := tr.Transcribe(context.Background(), []byte("audio"), "turn.wav")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSTTUnavailable))
}

func TestSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	syn := NewHTTPSynthesizer(server.URL, "es", commonhttp.NewClient(5*time.Second), logger.NewTestLogger(t))
	audio, err := syn.Synthesize(context.Background(), "Hola, soy Ana.")
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), audio)
}

func TestSynthesizeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	syn := NewHTTPSynthesizer(server.URL, "es", commonhttp.NewClient(5*time.Second), logger.NewTestLogger(t))
	_, err := syn.Synthesize(context.Background(), "hola")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTTSSynthesisFailed))
}
