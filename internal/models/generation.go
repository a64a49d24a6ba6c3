package models

// Format values with special meaning. Any other caller-supplied string is
// forwarded to WordPress as the post status.
const (
	FormatDraft   = "draft"
	FormatPublish = "publish"
	FormatDemo    = "demo"
)

// Downstream SSE event names
const (
	StreamEventMessage = "message"
	StreamEventEnd     = "end"
)

// PromptConfig carries the prompts and free variables forwarded to the workflow
type PromptConfig struct {
	TitlePrompt   string
	ContentPrompt string
	Variable1     string
	Variable2     string
}

// UpstreamCredentials identifies the generative workflow API
type UpstreamCredentials struct {
	APIKey      string
	APIEndpoint string
}

// CMSConfig holds the WordPress credentials used for publishing
type CMSConfig struct {
	Username            string
	ApplicationPassword string
	SiteURL             string
}

// GenerationRequest is built once per inbound call and never mutated afterwards.
type GenerationRequest struct {
	ID          string
	Keywords    []string
	Format      string
	Prompt      PromptConfig
	Credentials UpstreamCredentials
	CMS         CMSConfig
}

// ShouldPublish reports whether finished articles are sent to the CMS.
func (r *GenerationRequest) ShouldPublish() bool {
	return r.Format != FormatDemo
}

// ArticleResult is one completed keyword-cycle.
type ArticleResult struct {
	Keyword  string `json:"-"`
	Position int    `json:"-"`
	Title    string `json:"title" example:"猫の飼い方で悩んでいませんか？"`
	Content  string `json:"answer" example:"## はじめに ..."`
}

// StreamEvent is one event relayed to the downstream SSE connection.
type StreamEvent struct {
	Type    string
	Keyword string
	Result  *ArticleResult
}

// GenerateArticlesQuery binds the query string of /generate-articles
type GenerateArticlesQuery struct {
	Query  string `form:"query" example:"猫,犬"`
	Format string `form:"format" example:"draft"`
}
