package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/onegreenvn/keyword-article-proxy/internal/config"
	"github.com/onegreenvn/keyword-article-proxy/internal/database/repository"
	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/excel"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/settings"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingPublisher struct {
	mu     sync.Mutex
	titles []string
}

func (p *recordingPublisher) Dispatch(ctx context.Context, req *models.GenerationRequest, article *models.ArticleResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.titles = append(p.titles, article.Title)
	return nil
}

// newDifyServer answers every keyword with one TITLE node and one finished workflow
func newDifyServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Bearer app-test", r.Header.Get("Authorization"))

		if body.Query == "fail" {
			http.Error(w, `{"message":"bad keyword"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: {\"event\":\"node_finished\",\"data\":{\"title\":\"TITLE\",\"outputs\":{\"text\":%q}}}\n\n", body.Query+"の飼い方？")
		w.(http.Flusher).Flush()
		fmt.Fprintf(w, "data: {\"event\":\"workflow_finished\",\"data\":{\"outputs\":{\"answer\":%q}}}\n\n", "# "+body.Query+" <b>本文</b>")
	}))
}

type generationEnv struct {
	router    *gin.Engine
	store     *settings.MemoryStore
	publisher *recordingPublisher
	articles  *repository.MemoryArticleRepository
}

func newGenerationEnv(t *testing.T, endpoint string) *generationEnv {
	env := &generationEnv{
		store:     settings.NewMemoryStore(),
		publisher: &recordingPublisher{},
		articles:  repository.NewMemoryArticleRepository(100),
	}
	require.NoError(t, env.store.Save(context.Background(), models.Settings{
		APIEndpoint: endpoint,
		APIKey:      "app-test",
	}))

	cfg := &config.GenerationConfig{
		Defaults: models.UpstreamDefaults{
			TitlePrompt:   "default title",
			ContentPrompt: "default content",
			APIEndpoint:   "http://unused.test",
			APIKey:        "default-key",
		},
		TitleNode:      config.DefaultTitleNode,
		PublishTimeout: time.Second,
	}
	service := services.NewArticleGenerationService(env.store, services.NewDifyClient(nil), env.publisher, env.articles, cfg, nil)

	env.router = gin.New()
	env.router.GET("/generate-articles", NewGenerationHandler(service, 0).GenerateArticles)
	return env
}

func TestGenerateArticles_StreamsEveryKeyword(t *testing.T) {
	dify := newDifyServer(t)
	defer dify.Close()
	env := newGenerationEnv(t, dify.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/generate-articles?query=猫,犬&format=draft", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Generation-ID"))

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: message\n"))
	assert.Equal(t, 2, strings.Count(body, "event: end\n\n"))
	assert.Contains(t, body, `data: {"title":"猫の飼い方？","answer":"# 猫 <b>本文</b>"}`)
	assert.Contains(t, body, `data: {"title":"犬の飼い方？","answer":"# 犬 <b>本文</b>"}`)

	// every message precedes the last end frame
	assert.Less(t, strings.LastIndex(body, "event: message"), strings.LastIndex(body, "event: end"))

	assert.ElementsMatch(t, []string{"猫の飼い方？", "犬の飼い方？"}, env.publisher.titles)

	count, err := env.articles.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGenerateArticles_DemoDoesNotPublish(t *testing.T) {
	dify := newDifyServer(t)
	defer dify.Close()
	env := newGenerationEnv(t, dify.URL)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-articles?query=猫&format=demo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "event: message\n"))
	assert.Empty(t, env.publisher.titles)
}

func TestGenerateArticles_FailedKeywordStillEnds(t *testing.T) {
	dify := newDifyServer(t)
	defer dify.Close()
	env := newGenerationEnv(t, dify.URL)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-articles?query=猫,fail&format=demo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "event: message\n"))
	assert.Equal(t, 2, strings.Count(w.Body.String(), "event: end\n\n"))
}

func TestGenerateArticles_AllDispatchesFail(t *testing.T) {
	dify := newDifyServer(t)
	defer dify.Close()
	env := newGenerationEnv(t, dify.URL)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-articles?query=fail", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to generate articles", resp["error"])
	assert.Contains(t, resp["details"], "upstream returned status 400")
}

type stubGenerator struct {
	generation *services.Generation
	err        error
}

func (s *stubGenerator) Generate(ctx context.Context, query, format string) (*services.Generation, error) {
	return s.generation, s.err
}

func TestGenerateArticles_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		err   error
		wants int
	}{
		{name: "missing query", url: "/generate-articles", wants: http.StatusBadRequest},
		{name: "blank query", url: "/generate-articles?query=%20", wants: http.StatusBadRequest},
		{name: "only commas", url: "/generate-articles?query=,,", err: fmt.Errorf("%w: empty", services.ErrInvalidRequest), wants: http.StatusBadRequest},
		{name: "generator failure", url: "/generate-articles?query=a", err: errors.New("boom"), wants: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/generate-articles", NewGenerationHandler(&stubGenerator{err: tt.err}, 0).GenerateArticles)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.wants, w.Code)
			assert.NotEqual(t, "text/event-stream", w.Header().Get("Content-Type"))
		})
	}
}

func TestGenerateArticles_Heartbeat(t *testing.T) {
	events := make(chan models.StreamEvent)
	go func() {
		time.Sleep(50 * time.Millisecond)
		events <- models.StreamEvent{Type: models.StreamEventEnd, Keyword: "猫"}
		close(events)
	}()

	r := gin.New()
	gen := &stubGenerator{generation: &services.Generation{ID: "g-1", Keywords: []string{"猫"}, Events: events}}
	r.GET("/generate-articles", NewGenerationHandler(gen, 5*time.Millisecond).GenerateArticles)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-articles?query=猫", nil))

	assert.Equal(t, "g-1", w.Header().Get("X-Generation-ID"))
	assert.Contains(t, w.Body.String(), ": heartbeat ")
	assert.True(t, strings.HasSuffix(w.Body.String(), "event: end\n\n"))
}

func newSettingsRouter(store settings.Store) *gin.Engine {
	r := gin.New()
	h := NewSettingsHandler(store)
	r.GET("/settings", h.GetSettings)
	r.POST("/settings", h.SaveSettings)
	return r
}

func TestSettings_SaveThenGet(t *testing.T) {
	r := newSettingsRouter(settings.NewMemoryStore())
	payload := `{"title_prompt":"T","api_key":"app-1","siteurl":"https://wp.test","variable1":"v1"}`

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(payload)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Settings updated successfully"}`, w.Body.String())
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.Settings{TitlePrompt: "T", APIKey: "app-1", SiteURL: "https://wp.test", Variable1: "v1"}, got)
}

func TestSettings_ReplacesMissingKeys(t *testing.T) {
	store := settings.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), models.Settings{TitlePrompt: "old", APIKey: "old-key"}))
	r := newSettingsRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(`{"api_key":"new-key"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Settings{APIKey: "new-key"}, got)
}

func TestSettings_EmptyAndInvalidBody(t *testing.T) {
	store := settings.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), models.Settings{APIKey: "k"}))
	r := newSettingsRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader("")))
	assert.Equal(t, http.StatusOK, w.Code)
	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Settings{}, got)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingStore struct{ settings.Store }

func (failingStore) Save(ctx context.Context, s models.Settings) error {
	return errors.New("redis down")
}

func TestSettings_SaveFailure(t *testing.T) {
	r := newSettingsRouter(failingStore{settings.NewMemoryStore()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostToWordPress(t *testing.T) {
	wp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "editor", user)
		assert.Equal(t, "secret", pass)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["content"], "<h1>見出し</h1>")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"status":"draft"}`))
	}))
	defer wp.Close()

	r := gin.New()
	r.POST("/api/post-to-wordpress", NewWordPressHandler(wordpress.NewClient(nil)).PostToWordPress)

	payload, _ := json.Marshal(models.PostToWordPressRequest{
		Title:               "猫",
		Content:             "# 見出し",
		WordpressUsername:   "editor",
		ApplicationPassword: "secret",
		SiteURL:             wp.URL,
		Status:              "draft",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/post-to-wordpress", bytes.NewReader(payload)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Post created successfully","data":{"id":42,"status":"draft"}}`, w.Body.String())
}

func TestPostToWordPress_Failures(t *testing.T) {
	wp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Sorry, you are not allowed"}`))
	}))
	defer wp.Close()

	r := gin.New()
	r.POST("/api/post-to-wordpress", NewWordPressHandler(wordpress.NewClient(nil)).PostToWordPress)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/post-to-wordpress", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	body := fmt.Sprintf(`{"title":"t","content":"c","siteurl":%q}`, wp.URL)
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/post-to-wordpress", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to post to WordPress"}`, w.Body.String())
}

func newArticleRouter(t *testing.T) (*gin.Engine, *repository.MemoryArticleRepository) {
	repo := repository.NewMemoryArticleRepository(100)
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Create(&models.ArticleRecord{
			GenerationID: fmt.Sprintf("g-%d", i%2),
			Keyword:      fmt.Sprintf("kw-%d", i),
			Position:     i,
			Title:        fmt.Sprintf("title %d", i),
			Format:       models.FormatDraft,
		}))
	}

	r := gin.New()
	h := NewArticleHandler(repo, excel.NewExcelService())
	r.GET("/api/articles", h.ListArticles)
	r.GET("/api/articles/export", h.ExportArticles)
	return r, repo
}

func TestListArticles(t *testing.T) {
	r, _ := newArticleRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles?page=1&page_size=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Articles   []models.ArticleRecord `json:"articles"`
		Pagination struct {
			Total      int  `json:"total"`
			TotalPages int  `json:"total_pages"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Articles, 2)
	assert.Equal(t, "kw-3", resp.Articles[0].Keyword)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
}

func TestExportArticles(t *testing.T) {
	r, _ := newArticleRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/articles/export?generation_id=g-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Articles")
	require.NoError(t, err)
	// header plus kw-1 and kw-3
	assert.Len(t, rows, 3)
}
