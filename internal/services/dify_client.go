package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/onegreenvn/keyword-article-proxy/internal/models"
)

const responseModeStreaming = "streaming"

// UpstreamClient opens one streaming generation request per keyword
type UpstreamClient interface {
	OpenStream(ctx context.Context, req *models.GenerationRequest, keyword string) (io.ReadCloser, error)
}

// DifyClient talks to a Dify chat-messages workflow endpoint
type DifyClient struct {
	httpClient *http.Client
}

type difyInputs struct {
	TitlePrompt         string `json:"title_prompt"`
	ContentPrompt       string `json:"content_prompt"`
	Format              string `json:"format,omitempty"`
	Variable1           string `json:"variable1"`
	Variable2           string `json:"variable2"`
	WordpressUsername   string `json:"wordpress_username"`
	ApplicationPassword string `json:"application_password"`
	SiteURL             string `json:"siteurl"`
}

type difyRequest struct {
	Inputs       difyInputs `json:"inputs"`
	Query        string     `json:"query"`
	ResponseMode string     `json:"response_mode"`
	User         string     `json:"user"`
}

// NewDifyClient creates a client. The http client must not carry a total
// timeout: streams stay open until the workflow finishes.
func NewDifyClient(httpClient *http.Client) *DifyClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &DifyClient{httpClient: httpClient}
}

// OpenStream posts the keyword to the workflow and returns the open event stream.
// A non-2xx status is reported as an error and the body is closed.
func (c *DifyClient) OpenStream(ctx context.Context, req *models.GenerationRequest, keyword string) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(difyRequest{
		Inputs: difyInputs{
			TitlePrompt:         req.Prompt.TitlePrompt,
			ContentPrompt:       req.Prompt.ContentPrompt,
			Format:              req.Format,
			Variable1:           req.Prompt.Variable1,
			Variable2:           req.Prompt.Variable2,
			WordpressUsername:   req.CMS.Username,
			ApplicationPassword: req.CMS.ApplicationPassword,
			SiteURL:             req.CMS.SiteURL,
		},
		Query:        keyword,
		ResponseMode: responseModeStreaming,
		User:         req.CMS.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Credentials.APIEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Credentials.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call upstream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp.Body, nil
}
