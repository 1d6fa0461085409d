// Package assistant calls an OpenAI-compatible chat completions endpoint.
package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/netx"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the whole conversation and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: assistant API key not configured", common.ErrExternalUnavailable)
	}

	req := completionRequest{Model: c.model, Messages: messages}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp completionResponse
	if err := netx.PostJSON(ctx, c.http, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", common.ErrExternalUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}
