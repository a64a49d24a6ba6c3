package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/onegreenvn/keyword-article-proxy/internal/config"
	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/metrics"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/onegreenvn/keyword-article-proxy/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const upstreamReadBufferSize = 32 * 1024

// ArticleNotifier announces recorded articles to other systems
type ArticleNotifier interface {
	NotifyArticle(ctx context.Context, record *models.ArticleRecord) error
}

// Generation is a running multi-keyword generation call.
// Events is closed once every keyword stream has ended.
type Generation struct {
	ID       string
	Keywords []string
	Events   <-chan models.StreamEvent
}

// ArticleGenerationService fans one generation call out to one upstream
// stream per keyword and merges their results onto a single event channel.
type ArticleGenerationService struct {
	store     settings.Store
	upstream  UpstreamClient
	publisher PublishDispatcher
	articles  repository.ArticleRepository
	notifier  ArticleNotifier
	cfg       *config.GenerationConfig
	metrics   *metrics.Metrics
}

func NewArticleGenerationService(
	store settings.Store,
	upstream UpstreamClient,
	publisher PublishDispatcher,
	articles repository.ArticleRepository,
	cfg *config.GenerationConfig,
	m *metrics.Metrics,
) *ArticleGenerationService {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	return &ArticleGenerationService{
		store:     store,
		upstream:  upstream,
		publisher: publisher,
		articles:  articles,
		cfg:       cfg,
		metrics:   m,
	}
}

// SetNotifier sets the optional article notifier (RabbitMQ)
func (s *ArticleGenerationService) SetNotifier(notifier ArticleNotifier) {
	s.notifier = notifier
}

// BuildRequest resolves the effective values of one call from a settings snapshot.
// Empty upstream settings fall back to the configured defaults.
func (s *ArticleGenerationService) BuildRequest(snapshot models.Settings, keywords []string, format string) *models.GenerationRequest {
	d := s.cfg.Defaults
	return &models.GenerationRequest{
		ID:       uuid.NewString(),
		Keywords: keywords,
		Format:   format,
		Prompt: models.PromptConfig{
			TitlePrompt:   firstNonEmpty(snapshot.TitlePrompt, d.TitlePrompt),
			ContentPrompt: firstNonEmpty(snapshot.ContentPrompt, d.ContentPrompt),
			Variable1:     snapshot.Variable1,
			Variable2:     snapshot.Variable2,
		},
		Credentials: models.UpstreamCredentials{
			APIKey:      firstNonEmpty(snapshot.APIKey, d.APIKey),
			APIEndpoint: firstNonEmpty(snapshot.APIEndpoint, d.APIEndpoint),
		},
		CMS: models.CMSConfig{
			Username:            snapshot.WordpressUsername,
			ApplicationPassword: snapshot.ApplicationPassword,
			SiteURL:             snapshot.SiteURL,
		},
	}
}

// Generate splits query into keywords and opens one upstream stream per keyword.
// It returns once every dispatch either established or failed. ErrUpstreamDispatch
// is returned only when no stream could be opened.
//
// ctx is the downstream client's lifetime: when it ends, no further events are
// delivered, but upstream streams keep running and still publish.
func (s *ArticleGenerationService) Generate(ctx context.Context, query, format string) (*Generation, error) {
	keywords := utils.SplitKeywords(query)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: query must contain at least one keyword", ErrInvalidRequest)
	}

	snapshot, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	detached := context.WithoutCancel(ctx)
	defer s.clearDefaults(detached)

	req := s.BuildRequest(snapshot, keywords, format)
	logger := logrus.WithFields(logrus.Fields{
		"generation_id": req.ID,
		"format":        req.Format,
	})
	logger.Infof("Dispatching %d keyword streams: %v", len(keywords), keywords)

	bodies, err := s.openStreams(detached, req, logger)
	if err != nil {
		return nil, err
	}

	events := make(chan models.StreamEvent)
	var wg sync.WaitGroup
	for i, keyword := range req.Keywords {
		wg.Add(1)
		go func(position int, keyword string, body io.ReadCloser) {
			defer wg.Done()
			defer s.emit(ctx, events, models.StreamEvent{Type: models.StreamEventEnd, Keyword: keyword})
			if body == nil {
				return
			}
			s.runStream(ctx, detached, req, position, keyword, body, events)
		}(i+1, keyword, bodies[i])
	}

	go func() {
		wg.Wait()
		close(events)
		logger.Info("All keyword streams finished")
	}()

	return &Generation{
		ID:       req.ID,
		Keywords: req.Keywords,
		Events:   events,
	}, nil
}

// openStreams dispatches every keyword concurrently and waits until each one
// established or failed. A nil body marks a failed keyword.
func (s *ArticleGenerationService) openStreams(ctx context.Context, req *models.GenerationRequest, logger *logrus.Entry) ([]io.ReadCloser, error) {
	bodies := make([]io.ReadCloser, len(req.Keywords))
	errs := make([]error, len(req.Keywords))

	var wg sync.WaitGroup
	for i, keyword := range req.Keywords {
		wg.Add(1)
		go func(i int, keyword string) {
			defer wg.Done()
			bodies[i], errs[i] = s.upstream.OpenStream(ctx, req, keyword)
		}(i, keyword)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err == nil {
			s.metrics.KeywordStreams.WithLabelValues(metrics.StreamEstablished).Inc()
			continue
		}
		failed++
		bodies[i] = nil
		s.metrics.KeywordStreams.WithLabelValues(metrics.StreamDispatchErr).Inc()
		logger.WithField("keyword", req.Keywords[i]).Errorf("Failed to open upstream stream: %v", err)
	}

	if failed == len(req.Keywords) {
		err := fmt.Errorf("%w: all %d upstream requests failed: %v", ErrUpstreamDispatch, failed, errors.Join(errs...))
		utils.CaptureError(err, map[string]string{"generation_id": req.ID})
		return nil, err
	}
	return bodies, nil
}

// runStream reads one keyword stream to its end. Results are announced on
// events while clientCtx is alive; publishing uses ctx and always happens.
func (s *ArticleGenerationService) runStream(
	clientCtx, ctx context.Context,
	req *models.GenerationRequest,
	position int,
	keyword string,
	body io.ReadCloser,
	events chan<- models.StreamEvent,
) {
	defer body.Close()

	logger := logrus.WithFields(logrus.Fields{
		"generation_id": req.ID,
		"keyword":       keyword,
		"position":      position,
	})
	s.metrics.ActiveStreams.Inc()
	defer s.metrics.ActiveStreams.Dec()

	parser := NewStreamEventParser(logger, s.metrics)
	extractor := NewArticleExtractor(keyword, position, s.cfg.TitleNode)

	buf := make([]byte, upstreamReadBufferSize)
	remainder := ""
	for {
		n, err := body.Read(buf)
		if n > 0 {
			var decoded []models.UpstreamEvent
			decoded, remainder = parser.Feed(buf[:n], remainder)
			s.applyEvents(clientCtx, ctx, req, extractor, decoded, events, logger)
		}

		if errors.Is(err, io.EOF) {
			s.applyEvents(clientCtx, ctx, req, extractor, parser.Flush(remainder), events, logger)
			s.metrics.KeywordStreams.WithLabelValues(metrics.StreamCompleted).Inc()
			logger.Info("Upstream stream finished")
			return
		}
		if err != nil {
			streamErr := fmt.Errorf("%w: %v", ErrUpstreamStream, err)
			s.metrics.KeywordStreams.WithLabelValues(metrics.StreamErrored).Inc()
			logger.Errorf("Upstream stream aborted: %v", streamErr)
			utils.CaptureError(streamErr, map[string]string{"generation_id": req.ID, "keyword": keyword})
			return
		}
	}
}

func (s *ArticleGenerationService) applyEvents(
	clientCtx, ctx context.Context,
	req *models.GenerationRequest,
	extractor *ArticleExtractor,
	decoded []models.UpstreamEvent,
	events chan<- models.StreamEvent,
	logger *logrus.Entry,
) {
	for _, event := range decoded {
		result, err := extractor.Apply(event)
		if err != nil {
			s.metrics.ParseErrors.Inc()
			logger.Warnf("Dropping %s event: %v", event.Event, err)
			continue
		}
		if result == nil {
			continue
		}

		s.completeArticle(ctx, req, result, logger)
		s.emit(clientCtx, events, models.StreamEvent{
			Type:    models.StreamEventMessage,
			Keyword: result.Keyword,
			Result:  result,
		})
	}
}

// completeArticle publishes (unless demo), records and announces one result.
// None of these failures stop the result from being relayed.
func (s *ArticleGenerationService) completeArticle(ctx context.Context, req *models.GenerationRequest, result *models.ArticleResult, logger *logrus.Entry) {
	record := &models.ArticleRecord{
		ID:            uuid.NewString(),
		GenerationID:  req.ID,
		Keyword:       result.Keyword,
		Position:      result.Position,
		Title:         result.Title,
		Content:       result.Content,
		Format:        req.Format,
		PublishStatus: models.PublishStatusSkipped,
		CreatedAt:     time.Now(),
	}

	if req.ShouldPublish() && s.publisher != nil {
		start := time.Now()
		err := s.publisher.Dispatch(ctx, req, result)
		s.metrics.PublishSeconds.Observe(time.Since(start).Seconds())

		if err != nil {
			record.PublishStatus = models.PublishStatusFailed
			record.PublishError = err.Error()
			logger.Errorf("Failed to publish %q: %v", result.Title, err)
			utils.CaptureError(err, map[string]string{"generation_id": req.ID, "keyword": result.Keyword})
		} else {
			record.PublishStatus = models.PublishStatusPublished
			logger.Infof("Published %q with status %s", result.Title, req.Format)
		}
		s.metrics.Publishes.WithLabelValues(record.PublishStatus).Inc()
	}
	s.metrics.Articles.WithLabelValues(formatLabel(req.Format)).Inc()

	if s.articles != nil {
		if err := s.articles.Create(record); err != nil {
			logger.Warnf("Failed to record article: %v", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyArticle(ctx, record); err != nil {
			logger.Warnf("Failed to notify article: %v", err)
		}
	}
}

// emit delivers ev unless the downstream client is gone
func (s *ArticleGenerationService) emit(clientCtx context.Context, events chan<- models.StreamEvent, ev models.StreamEvent) {
	select {
	case events <- ev:
	case <-clientCtx.Done():
	}
}

// clearDefaults empties every setting still holding its default value
func (s *ArticleGenerationService) clearDefaults(ctx context.Context) {
	if err := s.store.Update(ctx, func(current *models.Settings) {
		current.ClearDefaults(s.cfg.Defaults)
	}); err != nil {
		logrus.Warnf("Failed to reset default settings: %v", err)
	}
}

func formatLabel(format string) string {
	switch format {
	case models.FormatDraft, models.FormatPublish, models.FormatDemo:
		return format
	default:
		return "other"
	}
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
