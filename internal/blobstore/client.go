package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codalotl/blobdiff/internal/logging"
	"github.com/tidwall/gjson"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// Client talks to the repository REST API:
//   - GET {base}/api/blob/{id} returns one blob.
//   - GET {base}/api/blob?query=&older_than= returns {"blobs": [...]}, newest first.
//   - GET {base}/api/blob/count?query= returns {"count": N}.
type Client struct {
	base   *url.URL
	apiKey string
	http   *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client. 0 means none.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// NewClient returns a Client for the repository at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("blobstore: base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("blobstore: base url %q must be absolute", baseURL)
	}
	c := &Client{base: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch returns the blob with id.
func (c *Client) Fetch(ctx context.Context, id string) (Blob, error) {
	if id == "" {
		return Blob{}, fmt.Errorf("blobstore: empty blob id: %w", ErrNotFound)
	}
	body, err := c.get(ctx, nil, "api", "blob", id)
	if err != nil {
		return Blob{}, fmt.Errorf("fetch blob %s: %w", id, err)
	}
	res := gjson.ParseBytes(body)
	content := res.Get("content")
	if !content.Exists() {
		return Blob{}, fmt.Errorf("fetch blob %s: response has no text content", id)
	}
	b := parseBlob(res)
	if b.ID == "" {
		b.ID = id
	}
	return b, nil
}

// List returns one page of blobs matching query. olderThan, if non-empty, is the id of the last blob of the previous page.
func (c *Client) List(ctx context.Context, query, olderThan string) ([]Blob, error) {
	params := url.Values{}
	params.Set("query", query)
	if olderThan != "" {
		params.Set("older_than", olderThan)
	}
	body, err := c.get(ctx, params, "api", "blob")
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	var blobs []Blob
	gjson.GetBytes(body, "blobs").ForEach(func(_, v gjson.Result) bool {
		blobs = append(blobs, parseBlob(v))
		return true
	})
	return blobs, nil
}

// Count returns the number of blobs matching query.
func (c *Client) Count(ctx context.Context, query string) (int, error) {
	params := url.Values{}
	params.Set("query", query)
	body, err := c.get(ctx, params, "api", "blob", "count")
	if err != nil {
		return 0, fmt.Errorf("count blobs: %w", err)
	}
	count := gjson.GetBytes(body, "count")
	if !count.Exists() {
		return 0, fmt.Errorf("count blobs: response has no count")
	}
	return int(count.Int()), nil
}

// get issues a GET for the path elements under the base URL. Each element is escaped as one segment.
func (c *Client) get(ctx context.Context, params url.Values, elems ...string) ([]byte, error) {
	u := *c.base
	raw := c.base.EscapedPath()
	for _, e := range elems {
		u.Path += "/" + e
		raw += "/" + url.PathEscape(e)
	}
	u.RawPath = raw
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("repository request", logging.FieldURL, u.Path, logging.FieldStatus, resp.StatusCode, logging.FieldDuration, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json response from %s", u.Path)
	}
	return body, nil
}

// errorMessage extracts a human-readable message from an error response body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"error.message", "error", "message"} {
			if v := gjson.GetBytes(body, key); v.Exists() && v.Type == gjson.String {
				return v.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func parseBlob(v gjson.Result) Blob {
	return Blob{
		ID:           v.Get("id").String(),
		Name:         v.Get("blob_name").String(),
		Type:         v.Get("blob_type").String(),
		Size:         v.Get("blob_size").Int(),
		UploadTime:   parseTime(v.Get("upload_time")),
		LatestConfig: v.Get("latest_config").String(),
		Content:      v.Get("content").String(),
	}
}

// parseTime accepts RFC 3339 strings and Unix seconds.
func parseTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0).UTC()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339Nano, v.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}
