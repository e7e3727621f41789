// internal/speech/speech.go

// Package speech wraps the external transcription and synthesis services.
// Both are plain HTTP services; the bot only cares about text in and audio
// out, not which engine sits behind the endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	apperrors "ana-voicebot/internal/common/errors"
	commonhttp "ana-voicebot/internal/common/http"
	"ana-voicebot/internal/common/logger"
)

// Transcriber converts caller audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Synthesizer converts Ana's reply into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// HTTPTranscriber posts audio to the transcription service as a multipart
// upload and reads back the recognized text.
type HTTPTranscriber struct {
	url      string
	language string
	client   *commonhttp.Client
	log      logger.Logger
}

func NewHTTPTranscriber(url, language string, client *commonhttp.Client, log logger.Logger) *HTTPTranscriber {
	return &HTTPTranscriber{url: url, language: language, client: client, log: log}
}

// Transcribe returns the recognized text. Silence or unintelligible audio is
// reported as an STT_NO_SPEECH error so the caller can re-prompt instead of
// treating the turn as a system failure.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "build upload", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "build upload", err)
	}
	if err := writer.WriteField("language", t.language); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "build upload", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "build upload", err)
	}

	req, err := http.NewRequest(http.MethodPost, t.url, &body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.DoWithContext(ctx, req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "transcription request failed", err).WithRetryable()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.New(apperrors.ErrCodeSTTUnavailable,
			fmt.Sprintf("transcription service returned %d", resp.StatusCode)).WithRetryable()
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeSTTUnavailable, "decode transcription response", err)
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return "", apperrors.New(apperrors.ErrCodeSTTNoSpeech, "no speech recognized")
	}
	return text, nil
}

// HTTPSynthesizer posts text to the synthesis service and reads back audio.
type HTTPSynthesizer struct {
	url      string
	language string
	client   *commonhttp.Client
	log      logger.Logger
}

func NewHTTPSynthesizer(url, language string, client *commonhttp.Client, log logger.Logger) *HTTPSynthesizer {
	return &HTTPSynthesizer{url: url, language: language, client: client, log: log}
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"language": s.language,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTTSSynthesisFailed, "encode synthesis request", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTTSSynthesisFailed, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTTSSynthesisFailed, "synthesis request failed", err).WithRetryable()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrCodeTTSSynthesisFailed,
			fmt.Sprintf("synthesis service returned %d", resp.StatusCode)).WithRetryable()
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTTSSynthesisFailed, "read synthesis response", err)
	}
	return audio, nil
}
