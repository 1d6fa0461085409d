// Package netx wraps the JSON-over-HTTP calls made to external providers.
// Every transport failure, non-200 status or undecodable body is reported as
// common.ErrExternalUnavailable so callers can show an "unavailable" state.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cropcare/internal/common"
)

// maxErrorBody caps how much of a failed response body ends up in an error.
const maxErrorBody = 512

// GetJSON issues a GET to rawURL with query appended and decodes the JSON
// response into out.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, query url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return do(client, req, out)
}

// PostJSON marshals in, POSTs it to rawURL with the extra headers and decodes
// the JSON response into out.
func PostJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(client, req, out)
}

func do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		// url.Error carries the full URL, query keys included
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return fmt.Errorf("%w: %s %s%s: %v", common.ErrExternalUnavailable, req.Method, req.URL.Host, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: %s; body: %s", common.ErrExternalUnavailable, req.Method, req.URL.Host, resp.Status, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", common.ErrExternalUnavailable, req.URL.Host, err)
	}
	return nil
}
