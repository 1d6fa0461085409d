// Package geo guesses the caller's city from the server's public IP through
// an ipinfo.io-compatible endpoint.
package geo

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/netx"
)

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// DetectCity returns the detected city, or "" when the lookup fails or the
// provider does not know. Callers treat "" as unknown; it is never an error.
func (c *Client) DetectCity(ctx context.Context) string {
	var resp struct {
		City string `json:"city"`
	}
	if err := netx.GetJSON(ctx, c.http, c.url, nil, &resp); err != nil {
		return ""
	}
	return strings.TrimSpace(resp.City)
}
