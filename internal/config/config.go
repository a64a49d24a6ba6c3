package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	defaultTitlePrompt = `
Q&A式の記事を書きたいので、タイトルには「？」を含めてください。
人間の悩みに注目してタイトルを考えてください。
タイトルはよくある質問や疑問を反映させるものにし、読者の興味を引くようなキャッチーな言葉やフレーズを使ってください。
`

	defaultContentPrompt = `
- 最初の数行で読者の興味を引き、続きを読みみたくなるようにしてください。
- 必ず日本の情報を参照してください。日本語以外をベースに書かれた情報は参照しないでください。なぜなら、記事を自然な日本語にするためです。
- 文章量は必ず2000文字以上にしてください。
`

	defaultAPIEndpoint = "https://api.dify.ai/v1/chat-messages"
	defaultAPIKey      = "default_api_key_null"

	// DefaultTitleNode is the workflow node title whose output is the article title
	DefaultTitleNode = "TITLE"
)

// GenerationConfig holds the knobs of the article generation pipeline
type GenerationConfig struct {
	Defaults          models.UpstreamDefaults
	TitleNode         string
	PublishTimeout    time.Duration
	HeartbeatInterval time.Duration
}

// RedisConfig holds the optional shared settings store connection
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// GetGenerationConfig returns generation configuration from environment variables.
// DEFAULTS_FILE may point to a YAML file overriding the built-in defaults.
func GetGenerationConfig() (*GenerationConfig, error) {
	defaults := models.UpstreamDefaults{
		TitlePrompt:   defaultTitlePrompt,
		ContentPrompt: defaultContentPrompt,
		APIEndpoint:   getEnv("DIFY_API_ENDPOINT", defaultAPIEndpoint),
		APIKey:        getEnv("DIFY_API_KEY", defaultAPIKey),
	}

	if path := getEnv("DEFAULTS_FILE", ""); path != "" {
		if err := loadDefaultsFile(path, &defaults); err != nil {
			return nil, err
		}
	}

	timeout, err := time.ParseDuration(getEnv("PUBLISH_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUBLISH_TIMEOUT: %w", err)
	}

	heartbeat, err := time.ParseDuration(getEnv("SSE_HEARTBEAT_INTERVAL", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SSE_HEARTBEAT_INTERVAL: %w", err)
	}

	return &GenerationConfig{
		Defaults:          defaults,
		TitleNode:         getEnv("UPSTREAM_TITLE_NODE", DefaultTitleNode),
		PublishTimeout:    timeout,
		HeartbeatInterval: heartbeat,
	}, nil
}

// loadDefaultsFile overlays non-empty values from a YAML file onto defaults
func loadDefaultsFile(path string, defaults *models.UpstreamDefaults) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read defaults file: %w", err)
	}

	var fromFile models.UpstreamDefaults
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}

	if fromFile.TitlePrompt != "" {
		defaults.TitlePrompt = fromFile.TitlePrompt
	}
	if fromFile.ContentPrompt != "" {
		defaults.ContentPrompt = fromFile.ContentPrompt
	}
	if fromFile.APIEndpoint != "" {
		defaults.APIEndpoint = fromFile.APIEndpoint
	}
	if fromFile.APIKey != "" {
		defaults.APIKey = fromFile.APIKey
	}
	return nil
}

// GetRedisConfig returns the Redis settings store configuration, or nil when REDIS_ADDR is unset
func GetRedisConfig() *RedisConfig {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		return nil
	}
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &RedisConfig{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
		Key:      getEnv("REDIS_SETTINGS_KEY", "keyword-article-proxy:settings"),
	}
}

// GetCORSOrigins returns the allowed CORS origins (comma separated CORS_ORIGINS)
func GetCORSOrigins() []string {
	raw := getEnv("CORS_ORIGINS", "http://localhost:3000")
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
