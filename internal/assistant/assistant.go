// Package assistant streams chat completions from an OpenAI-compatible
// endpoint behind a persona system prompt.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jackzampolin/docsort/internal/config"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("assistant is not configured")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("assistant temporarily unavailable")

	// ErrInvalidConversation is returned for histories the endpoint can't answer.
	ErrInvalidConversation = errors.New("invalid conversation")
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Recorder receives per-request outcomes.
type Recorder interface {
	ObserveAssistant(status string, firstToken time.Duration)
}

// Request outcomes passed to Recorder.
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusRejected    = "rejected"
	StatusUnavailable = "unavailable"
)

// Config configures a Client.
type Config struct {
	BaseURL      string
	Model        string
	APIKey       string
	SystemPrompt string
	Temperature  float64

	RateLimit        float64 // requests per minute, 0 = unlimited
	MaxRetries       int     // retries before the first streamed token
	RetryDelay       time.Duration
	Timeout          time.Duration
	BreakerThreshold uint32        // consecutive failures that open the breaker
	BreakerTimeout   time.Duration // how long the breaker stays open

	HTTPClient *http.Client // Optional (tests)
	Recorder   Recorder
	Logger     *slog.Logger
}

// ConfigFrom maps the assistant config section onto a Config,
// resolving ${ENV_VAR} references in the API key.
func ConfigFrom(a config.AssistantCfg) Config {
	return Config{
		BaseURL:      a.BaseURL,
		Model:        a.Model,
		APIKey:       a.ResolvedAPIKey(),
		SystemPrompt: a.SystemPrompt,
		Temperature:  a.Temperature,
		RateLimit:    a.RateLimit,
		MaxRetries:   a.MaxRetries,
		Timeout:      time.Duration(a.TimeoutSeconds) * time.Second,
	}
}

// Client streams completions for a conversation.
type Client struct {
	model        string
	systemPrompt string
	temperature  float64
	maxRetries   int
	retryDelay   time.Duration

	client   openai.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[string]
	recorder Recorder
	logger   *slog.Logger
}

// New creates a Client. Returns ErrNotConfigured without an API key.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultConfig().Assistant.Model
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = config.DefaultSystemPrompt
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Retries are handled here so they can stop once tokens have been delivered.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit / 60)
	}

	threshold := cfg.BreakerThreshold
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "assistant",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidConversation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		client:       openai.NewClient(opts...),
		limiter:      rate.NewLimiter(limit, 1),
		breaker:      breaker,
		recorder:     recorder,
		logger:       logger,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Stream sends history (after the system prompt) and calls onDelta for each
// streamed fragment. It returns the full reply; on a mid-stream failure it
// returns what arrived together with the error.
func (c *Client) Stream(ctx context.Context, history []Message, onDelta func(string) error) (string, error) {
	if err := validate(history); err != nil {
		c.recorder.ObserveAssistant(StatusRejected, 0)
		return "", err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		c.recorder.ObserveAssistant(StatusRejected, 0)
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	var firstToken time.Duration
	wrapped := func(delta string) error {
		if firstToken == 0 {
			firstToken = time.Since(start)
		}
		if onDelta == nil {
			return nil
		}
		return onDelta(delta)
	}

	reply, err := c.breaker.Execute(func() (string, error) {
		return c.streamWithRetry(ctx, history, wrapped)
	})

	switch {
	case err == nil:
		c.recorder.ObserveAssistant(StatusOK, firstToken)
		return reply, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.recorder.ObserveAssistant(StatusUnavailable, 0)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		c.recorder.ObserveAssistant(StatusError, firstToken)
		c.logger.Warn("assistant request failed", "model", c.model, "partial_chars", len(reply), "error", err)
		return reply, err
	}
}

// streamWithRetry opens the stream, retrying only until the first delta arrives.
func (c *Client) streamWithRetry(ctx context.Context, history []Message, onDelta func(string) error) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    c.messages(history),
		Temperature: openai.Float(c.temperature),
	}

	var reply strings.Builder
	err := retry.Do(
		func() error {
			reply.Reset()
			started, err := c.streamOnce(ctx, params, &reply, onDelta)
			if err == nil {
				return nil
			}
			if started || !retryable(err) {
				return retry.Unrecoverable(mapError(err))
			}
			return mapError(err)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries+1)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying assistant request", "attempt", n+1, "error", err)
		}),
	)
	return reply.String(), err
}

func (c *Client) streamOnce(ctx context.Context, params openai.ChatCompletionNewParams, reply *strings.Builder, onDelta func(string) error) (bool, error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	started := false
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		started = true
		reply.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return started, fmt.Errorf("delivering reply: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return started, err
	}
	return started, nil
}

func (c *Client) messages(history []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	out = append(out, openai.SystemMessage(c.systemPrompt))
	for _, m := range history {
		switch m.Role {
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func validate(history []Message) error {
	if len(history) == 0 {
		return fmt.Errorf("%w: no messages", ErrInvalidConversation)
	}
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidConversation, i, m.Role)
		}
	}
	if history[len(history)-1].Role != RoleUser {
		return fmt.Errorf("%w: last message must be from the user", ErrInvalidConversation)
	}
	return nil
}

// retryable reports whether a failed attempt may succeed when repeated.
// Client errors other than 429 won't.
func retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func mapError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("assistant error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("assistant error (status %d)", apiErr.StatusCode)
	}
	return err
}

type nopRecorder struct{}

func (nopRecorder) ObserveAssistant(string, time.Duration) {}
