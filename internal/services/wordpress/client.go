package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
)

const postsPath = "/wp-json/wp/v2/posts"

// Credentials identifies a WordPress site and an application password user
type Credentials struct {
	Username            string
	ApplicationPassword string
	SiteURL             string
}

// Post is the article to create. Content is Markdown.
type Post struct {
	Title   string
	Content string
	Status  string
}

type createPostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status,omitempty"`
}

// Client creates posts through the WordPress REST API
type Client struct {
	httpClient *http.Client
	markdown   goldmark.Markdown
}

// NewClient creates a WordPress client. A nil httpClient gets a 60s timeout client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		markdown:   goldmark.New(),
	}
}

// RenderMarkdown converts Markdown to HTML
func (c *Client) RenderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// PostsURL returns the posts endpoint of a site
func PostsURL(siteURL string) string {
	return strings.TrimSuffix(siteURL, "/") + postsPath
}

// CreatePost converts the post content to HTML and creates it on the site.
// The decoded WordPress response is returned.
func (c *Client) CreatePost(ctx context.Context, creds Credentials, post Post) (map[string]interface{}, error) {
	if creds.SiteURL == "" {
		return nil, fmt.Errorf("wordpress site url is not configured")
	}

	html, err := c.RenderMarkdown(post.Content)
	if err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(createPostPayload{
		Title:   post.Title,
		Content: html,
		Status:  post.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	apiURL := PostsURL(creds.SiteURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(creds.Username, creds.ApplicationPassword)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logrus.Errorf("HTTP request failed to WordPress %s: %v", apiURL, err)
		return nil, fmt.Errorf("failed to call wordpress: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Errorf("WordPress returned error status %d: %s", resp.StatusCode, string(bodyBytes))
		var errorResp map[string]interface{}
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil {
			if errorMsg, ok := errorResp["message"].(string); ok {
				return nil, fmt.Errorf("wordpress error (status %d): %s", resp.StatusCode, errorMsg)
			}
		}
		return nil, fmt.Errorf("wordpress returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var responseData map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &responseData); err != nil {
		return nil, fmt.Errorf("failed to parse wordpress response: %w", err)
	}
	return responseData, nil
}
