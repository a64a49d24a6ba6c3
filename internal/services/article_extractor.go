package services

import (
	"fmt"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
)

// ExtractionState is the per-keyword title state of the current result cycle
type ExtractionState int

const (
	AwaitingTitle ExtractionState = iota
	TitleConfirmed
)

func (s ExtractionState) String() string {
	switch s {
	case AwaitingTitle:
		return "awaiting_title"
	case TitleConfirmed:
		return "title_confirmed"
	default:
		return fmt.Sprintf("ExtractionState(%d)", int(s))
	}
}

// ArticleExtractor turns the decoded events of one keyword stream into
// article results. It is owned by a single stream and is not safe for
// concurrent use.
type ArticleExtractor struct {
	keyword   string
	position  int
	titleNode string

	state ExtractionState
	title string
}

// NewArticleExtractor creates an extractor for the keyword at the 1-based position
func NewArticleExtractor(keyword string, position int, titleNode string) *ArticleExtractor {
	return &ArticleExtractor{
		keyword:   keyword,
		position:  position,
		titleNode: titleNode,
		state:     AwaitingTitle,
	}
}

// State returns the current state
func (x *ArticleExtractor) State() ExtractionState {
	return x.state
}

// FallbackTitle is used when the workflow never reports a title node
func (x *ArticleExtractor) FallbackTitle() string {
	return fmt.Sprintf("%s - %d", x.keyword, x.position)
}

// Apply feeds one event through the state machine. A result is returned when
// the event closed a keyword-cycle. Unknown event kinds are ignored.
func (x *ArticleExtractor) Apply(event models.UpstreamEvent) (*models.ArticleResult, error) {
	switch event.Event {
	case models.UpstreamEventNodeFinished:
		return nil, x.onNodeFinished(event)
	case models.UpstreamEventWorkflowFinished:
		return x.onWorkflowFinished(event)
	default:
		return nil, nil
	}
}

func (x *ArticleExtractor) onNodeFinished(event models.UpstreamEvent) error {
	if x.state != AwaitingTitle {
		return nil
	}

	node, err := event.NodeFinished()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}

	if node.Title == x.titleNode && node.Outputs.Text != "" {
		x.title = node.Outputs.Text
		x.state = TitleConfirmed
		return nil
	}

	// Provisional: a later title node in this cycle still replaces it
	x.title = x.FallbackTitle()
	return nil
}

func (x *ArticleExtractor) onWorkflowFinished(event models.UpstreamEvent) (*models.ArticleResult, error) {
	finished, err := event.WorkflowFinished()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}

	title := x.title
	if title == "" {
		title = x.FallbackTitle()
	}

	result := &models.ArticleResult{
		Keyword:  x.keyword,
		Position: x.position,
		Title:    title,
		Content:  finished.Outputs.Answer,
	}

	x.title = ""
	x.state = AwaitingTitle
	return result, nil
}
