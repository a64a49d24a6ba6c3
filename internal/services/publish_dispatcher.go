package services

import (
	"context"
	"fmt"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
)

// PublishDispatcher sends a finished article to the CMS
type PublishDispatcher interface {
	Dispatch(ctx context.Context, req *models.GenerationRequest, article *models.ArticleResult) error
}

// PostCreator is implemented by *wordpress.Client
type PostCreator interface {
	CreatePost(ctx context.Context, creds wordpress.Credentials, post wordpress.Post) (map[string]interface{}, error)
}

// WordPressDispatcher publishes articles as WordPress posts whose status is the request format
type WordPressDispatcher struct {
	creator PostCreator
	timeout time.Duration
}

func NewWordPressDispatcher(creator PostCreator, timeout time.Duration) *WordPressDispatcher {
	return &WordPressDispatcher{creator: creator, timeout: timeout}
}

func (d *WordPressDispatcher) Dispatch(ctx context.Context, req *models.GenerationRequest, article *models.ArticleResult) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	_, err := d.creator.CreatePost(ctx,
		wordpress.Credentials{
			Username:            req.CMS.Username,
			ApplicationPassword: req.CMS.ApplicationPassword,
			SiteURL:             req.CMS.SiteURL,
		},
		wordpress.Post{
			Title:   article.Title,
			Content: article.Content,
			Status:  req.Format,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}
