// Package llm implements core.Generator against an OpenAI-compatible
// chat completions API (Groq by default).
// Network errors, 429 and 5xx responses are retried with exponential backoff.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gaurav-prasanna/chunkpipe/core"
	"github.com/gaurav-prasanna/chunkpipe/logger"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout     = 120 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffMax  = 10 * time.Second
)

// ErrEmptyResponse is returned when the service answers without content.
var ErrEmptyResponse = errors.New("empty response from generation service")

// Options configures a Client. Zero durations and retries use defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  uint64
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Client calls the chat completions endpoint.
type Client struct {
	http        *resty.Client
	maxRetries  uint64
	backoffBase time.Duration
	backoffMax  time.Duration
	log         logger.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// New creates a Client.
func New(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = defaultBackoffMax
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}

	return &Client{
		http:        client,
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		backoffMax:  opts.BackoffMax,
		log:         log,
	}
}

// Generate sends the system and user messages and returns the first
// choice's content.
func (c *Client) Generate(ctx context.Context, req core.GenerateRequest) (string, error) {
	body := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}

	backoff := retry.WithMaxRetries(c.maxRetries,
		retry.WithCappedDuration(c.backoffMax, retry.NewExponential(c.backoffBase)))

	var content string
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var callErr error
		content, callErr = c.call(ctx, body)
		var se *statusError
		switch {
		case callErr == nil:
			return nil
		case errors.As(callErr, &se) && !se.retryable():
			return callErr
		case errors.Is(callErr, ErrEmptyResponse), errors.Is(callErr, context.Canceled):
			return callErr
		default:
			c.log.Warn("generation request failed, retrying", "attempt", attempt, "err", callErr)
			return retry.RetryableError(callErr)
		}
	})
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", req.Model, err)
	}
	return content, nil
}

func (c *Client) call(ctx context.Context, body chatRequest) (string, error) {
	var result chatResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	if resp.IsError() {
		msg := failure.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		return "", &statusError{code: resp.StatusCode(), message: msg}
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.code, e.message)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}
