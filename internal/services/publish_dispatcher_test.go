package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
	"github.com/onegreenvn/keyword-article-proxy/internal/services/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostCreator struct {
	creds       wordpress.Credentials
	post        wordpress.Post
	hasDeadline bool
	err         error
}

func (f *fakePostCreator) CreatePost(ctx context.Context, creds wordpress.Credentials, post wordpress.Post) (map[string]interface{}, error) {
	f.creds = creds
	f.post = post
	_, f.hasDeadline = ctx.Deadline()
	return map[string]interface{}{"id": 1}, f.err
}

func TestWordPressDispatcher_Dispatch(t *testing.T) {
	creator := &fakePostCreator{}
	d := NewWordPressDispatcher(creator, time.Minute)

	req := testRequest("http://unused")
	req.Format = models.FormatPublish
	err := d.Dispatch(context.Background(), req, &models.ArticleResult{Title: "猫", Content: "# 本文"})
	require.NoError(t, err)

	assert.Equal(t, "editor", creator.creds.Username)
	assert.Equal(t, "pw", creator.creds.ApplicationPassword)
	assert.Equal(t, "https://example.com", creator.creds.SiteURL)
	assert.Equal(t, wordpress.Post{Title: "猫", Content: "# 本文", Status: models.FormatPublish}, creator.post)
	assert.True(t, creator.hasDeadline)
}

func TestWordPressDispatcher_WrapsError(t *testing.T) {
	creator := &fakePostCreator{err: errors.New("wordpress returned status 500")}
	d := NewWordPressDispatcher(creator, 0)

	err := d.Dispatch(context.Background(), testRequest("http://unused"), &models.ArticleResult{Title: "t"})
	assert.ErrorIs(t, err, ErrPublish)
	assert.False(t, creator.hasDeadline)
}
