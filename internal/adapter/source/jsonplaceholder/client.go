package jsonplaceholder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
)

const (
	// DefaultBaseURL is the public JSONPlaceholder API
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"

	defaultTimeout = 15 * time.Second
	userAgent      = "postdeck"
)

// Client implements domain.PostRepository and domain.UserRepository
// against a JSONPlaceholder-compatible API. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetPosts returns one page of posts whose title contains q.Filter
func (c *Client) GetPosts(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	params := url.Values{}
	params.Set("_start", strconv.Itoa(q.Start))
	params.Set("_limit", strconv.Itoa(q.Limit))
	if q.Filter != "" {
		params.Set("title_like", q.Filter)
	}

	var posts []domain.Post
	if err := c.getJSON(ctx, "/posts", params, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// GetUsers returns every user known to the API
func (c *Client) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.getJSON(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// getJSON performs a GET request and decodes the JSON body into out.
// Cancellation is returned as the bare context error; any other failure to
// reach the server wraps domain.ErrServerOffline.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("api request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("api request error", "status", resp.StatusCode, "path", path, "body", string(body))
		return &domain.StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return ctxErr
		}
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, path string, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		c.logger.Debug("api request canceled", "path", path)
		return ctxErr
	}
	c.logger.Error("api request failed", "path", path, "error", err)
	return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
}
