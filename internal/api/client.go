package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type ctxKey int

const chatIDKey ctxKey = iota

// WithChat tags a context with the chat whose session authenticates
// the request. Every call made by the bot goes through this.
func WithChat(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

func chatFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(chatIDKey).(int64)
	return id, ok
}

// TokenSource yields the bearer token for a chat, empty when the chat
// has no session.
type TokenSource interface {
	Token(ctx context.Context, chatID int64) (string, error)
}

// UnauthorizedHook runs once per 401 response, before the error is
// returned to the call site. It is where the session gets cleared and
// the user is pushed back to the login screen.
type UnauthorizedHook func(ctx context.Context, chatID int64)

// Client talks to the inventory REST API. Token attachment and
// 401 handling live in request/response middleware so individual
// endpoint methods stay plain.
type Client struct {
	http           *resty.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
	log            *slog.Logger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log *slog.Logger) *Client {
	c := &Client{tokens: tokens, log: log}

	rc := resty.New()
	rc.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		chatID, ok := chatFrom(req.Context())
		if !ok || c.tokens == nil {
			return nil
		}
		token, err := c.tokens.Token(req.Context(), chatID)
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			req.SetAuthToken(token)
		}
		return nil
	})

	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() != http.StatusUnauthorized {
			return nil
		}
		ctx := resp.Request.Context()
		if chatID, ok := chatFrom(ctx); ok && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, chatID)
		}
		return nil
	})

	c.http = rc
	return c
}

// SetUnauthorizedHook is wired after construction: the bot needs the
// client and the client needs the bot's hook.
func (c *Client) SetUnauthorizedHook(h UnauthorizedHook) { c.onUnauthorized = h }

// ListParams are the common query parameters of every list endpoint.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) query() map[string]string {
	q := map[string]string{}
	if p.Page > 0 {
		q["page"] = fmt.Sprintf("%d", p.Page)
	}
	if p.Limit > 0 {
		q["limit"] = fmt.Sprintf("%d", p.Limit)
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	return q
}

// CacheKey encodes the params as a stable cache key suffix.
func (p ListParams) CacheKey() string {
	return fmt.Sprintf("p=%d&l=%d&s=%s", p.Page, p.Limit, p.Search)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	apiErr := new(Error)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		SetError(apiErr).
		Get(path)
	return c.finish(resp, err, apiErr)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	apiErr := new(Error)
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	return c.finish(resp, err, apiErr)
}

func (c *Client) finish(resp *resty.Response, err error, apiErr *Error) error {
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = resp.Status()
		}
		c.log.Warn("api error", "method", resp.Request.Method,
			"url", resp.Request.URL, "status", resp.StatusCode(), "msg", apiErr.Message)
		return apiErr
	}
	return nil
}
