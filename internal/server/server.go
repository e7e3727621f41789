// internal/server/server.go

// Package server exposes the voicebot over HTTP: one turn endpoint that
// streams response segments as server-sent events, an audio file handler for
// the synthesized chunks, health and metrics, and a per-session debug view.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "ana-voicebot/internal/common/errors"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/dispatch"
	"ana-voicebot/internal/session"
	"ana-voicebot/internal/speech"
)

const (
	msgSTTFailed   = "Disculpa, no pude escucharte bien. ¿Podrías grabar tu mensaje de nuevo?"
	msgEmptyTurn   = "Disculpa, no recibí ningún mensaje."
	maxAudioUpload = 10 << 20
)

// Config holds the handler-level settings.
type Config struct {
	StaticDir string
	UploadDir string
}

type Server struct {
	cfg         Config
	dispatcher  *dispatch.Dispatcher
	store       *session.Store
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	log         logger.Logger
}

func New(cfg Config, dispatcher *dispatch.Dispatcher, store *session.Store, transcriber speech.Transcriber, synthesizer speech.Synthesizer, log logger.Logger) *Server {
	return &Server{
		cfg:         cfg,
		dispatcher:  dispatcher,
		store:       store,
		transcriber: transcriber,
		synthesizer: synthesizer,
		log:         log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/turn", s.handleTurn)
	mux.HandleFunc("/api/sessions/", s.handleSessionSnapshot)
	mux.Handle("/audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(s.cfg.UploadDir))))
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleTurn runs one conversation turn. The caller sends either a "text"
// form field or an "audio" file; the reply is streamed as SSE so the first
// sentence can be spoken while the rest is still being synthesized.
func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	stream, ok := newSSEStream(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	stream.send("session", map[string]string{"sessionId": sessionID})

	userText, ok := s.userText(r, stream, sessionID)
	if !ok {
		stream.send("done", map[string]string{"state": string(s.store.State(sessionID))})
		return
	}

	turn := s.dispatcher.ProcessTurn(r.Context(), sessionID, userText)
	for _, response := range turn.Responses {
		segments := dispatch.SplitSentences(response)
		if len(segments) == 0 {
			segments = []string{response}
		}
		for _, segment := range segments {
			stream.send("segment", s.segmentPayload(r, segment))
		}
	}

	stream.send("done", map[string]string{
		"state":    string(turn.State),
		"userText": userText,
	})
}

// userText extracts the utterance from the request, transcribing uploaded
// audio when no text field is present. A false return means the turn is over
// before it reached the conversation (no input, or the transcriber failed).
func (s *Server) userText(r *http.Request, stream *sseStream, sessionID string) (string, bool) {
	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		return text, true
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		stream.send("segment", map[string]string{"text": msgEmptyTurn})
		return "", false
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil || s.transcriber == nil {
		stream.send("segment", map[string]string{"text": msgSTTFailed})
		return "", false
	}

	text, err := s.transcriber.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		fields := map[string]interface{}{"sessionId": sessionID}
		if apperrors.Is(err, apperrors.ErrCodeSTTNoSpeech) {
			s.log.Debug("no speech detected", fields)
		} else {
			s.log.WithError(err).Warn("transcription failed", fields)
		}
		stream.send("segment", map[string]string{"text": msgSTTFailed})
		return "", false
	}
	return text, true
}

// segmentPayload carries one sentence and, when synthesis is available, the
// URL of its audio chunk. TTS failure degrades to a text-only segment.
func (s *Server) segmentPayload(r *http.Request, segment string) map[string]string {
	payload := map[string]string{"text": segment}
	if s.synthesizer == nil {
		return payload
	}

	audio, err := s.synthesizer.Synthesize(r.Context(), segment)
	if err != nil {
		s.log.WithError(err).Warn("synthesis failed", map[string]interface{}{
			"segmentLength": len(segment),
		})
		return payload
	}

	name := fmt.Sprintf("%s.mp3", uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.cfg.UploadDir, name), audio, 0o644); err != nil {
		s.log.WithError(err).Warn("failed to store audio chunk", nil)
		return payload
	}
	payload["audioUrl"] = "/audio/" + name
	return payload
}

// handleSessionSnapshot serves the debug view of one session.
func (s *Server) handleSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	snapshot, ok := s.store.Snapshot(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// sseStream writes server-sent events and flushes after each one.
type sseStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEStream(w http.ResponseWriter) (*sseStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseStream{w: w, flusher: flusher}, true
}

func (s *sseStream) send(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	s.flusher.Flush()
}
