// Package client fetches pages and block trees from the Notion REST API.
//
// Responses are returned as undecoded notion.Record values; decoding into
// typed variants is left to the notion package.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gerunddev/notionmd/internal/config"
	"github.com/gerunddev/notionmd/internal/logger"
	"github.com/gerunddev/notionmd/internal/notion"
	"github.com/google/uuid"
)

// PageSize is the number of children requested per list call
const PageSize = 100

// Client talks to the Notion API. Safe for concurrent use.
type Client struct {
	baseURL     string
	token       string
	version     string
	httpClient  *http.Client
	log         *logger.Logger
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for retries
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMaxAttempts bounds how often a rate-limited request is sent
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.maxAttempts = n }
}

// New creates a client for the API at baseURL
func New(baseURL, token, version string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		version: version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:         logger.Discard(),
		maxAttempts: 3,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the loaded configuration
func NewFromConfig(cfg *config.Config, log *logger.Logger) *Client {
	return New(cfg.BaseURL, cfg.Token, cfg.APIVersion,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithLogger(log))
}

// APIError is an error response from the service
type APIError struct {
	Status     int
	Code       string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: status=%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error: status=%d code=%s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ParseID accepts a dashed or undashed UUID, or a page URL ending in one
func ParseID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if strings.Contains(s, "/") {
		s = s[strings.LastIndex(s, "/")+1:]
		if len(s) > 32 {
			s = s[len(s)-32:]
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid page id %q: %w", s, err)
	}
	return id, nil
}

// GetPage retrieves a page object
func (c *Client) GetPage(ctx context.Context, id string) (notion.Record, error) {
	return c.get(ctx, "/pages/"+url.PathEscape(id), nil)
}

// GetBlock retrieves a single block object
func (c *Client) GetBlock(ctx context.Context, id string) (notion.Record, error) {
	return c.get(ctx, "/blocks/"+url.PathEscape(id), nil)
}

// ListChildren retrieves every direct child of a block or page, following
// pagination cursors until the service reports no more results.
func (c *Client) ListChildren(ctx context.Context, id string) ([]notion.Record, error) {
	var children []notion.Record
	cursor := ""
	for {
		query := url.Values{"page_size": {strconv.Itoa(PageSize)}}
		if cursor != "" {
			query.Set("start_cursor", cursor)
		}

		rec, err := c.get(ctx, "/blocks/"+url.PathEscape(id)+"/children", query)
		if err != nil {
			return nil, err
		}
		list, err := notion.DecodeList(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode children of %s: %w", id, err)
		}
		children = append(children, list.Results...)

		if !list.HasMore || list.NextCursor == "" {
			return children, nil
		}
		cursor = list.NextCursor
	}
}

// FetchBlockTree lists the children of id and recursively embeds each
// block's own children into its payload under "children", so a single
// notion.DecodeBlocks call yields the whole tree. Sub-pages and databases
// are not descended into.
func (c *Client) FetchBlockTree(ctx context.Context, id string) ([]any, error) {
	children, err := c.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(children))
	for _, rec := range children {
		if hasChildren, _ := rec["has_children"].(bool); hasChildren {
			kind, _ := rec["type"].(string)
			payload, ok := rec[kind].(map[string]any)
			blockID, _ := rec["id"].(string)
			if ok && blockID != "" && kind != "child_page" && kind != "child_database" {
				sub, err := c.FetchBlockTree(ctx, blockID)
				if err != nil {
					return nil, err
				}
				payload["children"] = sub
			}
		}
		items = append(items, rec)
	}
	return items, nil
}

// get performs a GET, retrying rate-limited responses
func (c *Client) get(ctx context.Context, path string, query url.Values) (notion.Record, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.doRequest(ctx, http.MethodGet, path, query)
		if err != nil {
			return nil, fmt.Errorf("failed to request %s: %w", path, err)
		}

		rec, err := decodeResponse(resp)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests && attempt < c.maxAttempts {
			wait := apiErr.RetryAfter
			if wait <= 0 {
				wait = time.Second
			}
			c.log.RequestRetried(path, attempt, wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Notion-Version", c.version)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes a JSON object body, or the service's error body
func decodeResponse(resp *http.Response) (notion.Record, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var errBody struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
			apiErr.Code = errBody.Code
			apiErr.Message = errBody.Message
		}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return nil, apiErr
	}

	var rec notion.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rec, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
