package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/keyword-article-proxy/internal/services"
	"github.com/sirupsen/logrus"
)

// ArticleGenerator is implemented by *services.ArticleGenerationService
type ArticleGenerator interface {
	Generate(ctx context.Context, query, format string) (*services.Generation, error)
}

type GenerationHandler struct {
	generator         ArticleGenerator
	heartbeatInterval time.Duration
}

// NewGenerationHandler creates the handler. A zero heartbeatInterval disables heartbeats.
func NewGenerationHandler(generator ArticleGenerator, heartbeatInterval time.Duration) *GenerationHandler {
	return &GenerationHandler{
		generator:         generator,
		heartbeatInterval: heartbeatInterval,
	}
}

// GenerateArticles godoc
// @Summary Generate articles for comma separated keywords
// @Description Streams one `message` event per generated article and one `end` event per keyword via SSE
// @Tags articles
// @Produce text/event-stream
// @Param query query string true "Comma separated keywords" example:"猫,犬"
// @Param format query string false "draft, publish or demo" example:"draft"
// @Success 200 "SSE stream"
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /generate-articles [get]
func (h *GenerationHandler) GenerateArticles(c *gin.Context) {
	query := c.Query("query")
	format := c.Query("format")

	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	ctx := c.Request.Context()
	generation, err := h.generator.Generate(ctx, query, format)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		logrus.Errorf("Failed to generate articles for %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate articles", "details": err.Error()})
		return
	}

	// Set headers for SSE
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable buffering for nginx
	c.Header("X-Generation-ID", generation.ID)
	c.Status(http.StatusOK)
	c.Writer.Flush()

	var heartbeat <-chan time.Time
	if h.heartbeatInterval > 0 {
		ticker := time.NewTicker(h.heartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("SSE client disconnected from generation %s", generation.ID)
			return
		case ev, ok := <-generation.Events:
			if !ok {
				return
			}
			frame, err := services.EncodeStreamEvent(ev)
			if err != nil {
				logrus.Errorf("Failed to encode SSE event: %v", err)
				continue
			}
			if _, err := c.Writer.Write(frame); err != nil {
				logrus.Errorf("Failed to write SSE message: %v", err)
				return
			}
			c.Writer.Flush()
		case now := <-heartbeat:
			if _, err := c.Writer.Write(services.Heartbeat(now)); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
