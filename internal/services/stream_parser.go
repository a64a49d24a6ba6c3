package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/onegreenvn/keyword-article-proxy/internal/metrics"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/sirupsen/logrus"
)

const dataLinePrefix = "data: "

// StreamEventParser decodes the line-delimited `data: <json>` workflow stream.
// It keeps no state: the partial trailing line is handed back to the caller
// and must be passed into the next Feed call.
type StreamEventParser struct {
	logger  *logrus.Entry
	metrics *metrics.Metrics
}

// NewStreamEventParser creates a parser. Both arguments may be nil.
func NewStreamEventParser(logger *logrus.Entry, m *metrics.Metrics) *StreamEventParser {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &StreamEventParser{logger: logger, metrics: m}
}

// Feed appends chunk to remainder and decodes every complete line.
// The segment after the last newline is returned as the new remainder.
func (p *StreamEventParser) Feed(chunk []byte, remainder string) ([]models.UpstreamEvent, string) {
	buffer := remainder + string(chunk)
	lines := strings.Split(buffer, "\n")
	newRemainder := lines[len(lines)-1]

	events := make([]models.UpstreamEvent, 0, len(lines)-1)
	for _, line := range lines[:len(lines)-1] {
		if event, ok := p.parseLine(line); ok {
			events = append(events, event)
		}
	}
	return events, newRemainder
}

// Flush decodes a final unterminated line once the stream reached EOF
func (p *StreamEventParser) Flush(remainder string) []models.UpstreamEvent {
	if event, ok := p.parseLine(remainder); ok {
		return []models.UpstreamEvent{event}
	}
	return nil
}

func (p *StreamEventParser) parseLine(line string) (models.UpstreamEvent, bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, dataLinePrefix) {
		return models.UpstreamEvent{}, false
	}

	var event models.UpstreamEvent
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, dataLinePrefix)), &event); err != nil {
		p.logger.Warnf("Dropping upstream line: %v", fmt.Errorf("%w: %v", ErrUpstreamParse, err))
		if p.metrics != nil {
			p.metrics.ParseErrors.Inc()
		}
		return models.UpstreamEvent{}, false
	}
	return event, true
}
