package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/superdocs/superdocs/internal/types"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete sends a completion event with the final unit states
func (s *SSEWriter) WriteComplete(repoName string, units []types.GenerationUnit) {
	s.WriteEvent("complete", map[string]any{ //nolint:errcheck
		"repo_name": repoName,
		"docs":      units,
	})
}

// TextStreamer flushes raw text chunks to the client as they arrive. Used
// for chat responses, where the client renders a growing Markdown answer
// rather than discrete events.
type TextStreamer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewTextStreamer creates a plain-text chunk streamer
func NewTextStreamer(w http.ResponseWriter) (*TextStreamer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	return &TextStreamer{w: w, flusher: flusher}, nil
}

// WriteChunk writes one chunk and flushes it immediately. Returning an error
// aborts the producing stream.
func (t *TextStreamer) WriteChunk(text string) error {
	if _, err := fmt.Fprint(t.w, text); err != nil {
		return err
	}
	t.flusher.Flush()
	return nil
}
