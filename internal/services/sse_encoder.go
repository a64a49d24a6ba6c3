package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
)

// EncodeStreamEvent formats a downstream event as an SSE frame:
// `event: message` carries {"title","answer"}, `event: end` has no data.
func EncodeStreamEvent(ev models.StreamEvent) ([]byte, error) {
	switch ev.Type {
	case models.StreamEventEnd:
		return []byte("event: end\n\n"), nil
	case models.StreamEventMessage:
		if ev.Result == nil {
			return nil, fmt.Errorf("message event without result")
		}
		// Article bodies are HTML/markdown; keep <, > and & readable
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(ev.Result); err != nil {
			return nil, fmt.Errorf("failed to marshal result for SSE: %w", err)
		}
		data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
		return []byte(fmt.Sprintf("event: message\ndata: %s\n\n", data)), nil
	default:
		return nil, fmt.Errorf("unknown stream event type %q", ev.Type)
	}
}

// Heartbeat returns an SSE comment frame that keeps idle connections open
func Heartbeat(now time.Time) []byte {
	return []byte(fmt.Sprintf(": heartbeat %s\n\n", now.Format(time.RFC3339)))
}
