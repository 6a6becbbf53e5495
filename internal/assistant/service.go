package assistant

import (
	"context"
	"log/slog"
	"sync"
)

// Streamer answers a conversation with a streamed reply.
type Streamer interface {
	Stream(ctx context.Context, history []Message, onDelta func(string) error) (string, error)
}

// Service holds the active Client and swaps it when configuration changes.
// It reports ErrNotConfigured while no API key is set.
type Service struct {
	mu     sync.RWMutex
	client *Client
	logger *slog.Logger
}

// NewService creates a Service from cfg. A missing API key is not an error here;
// Stream reports it instead.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{logger: logger}
	s.Update(cfg)
	return s
}

// Update replaces the client. Requests already streaming finish on the old one.
func (s *Service) Update(cfg Config) {
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	client, err := New(cfg)
	if err != nil {
		s.logger.Info("assistant disabled", "reason", err)
		client = nil
	} else {
		s.logger.Debug("assistant configured", "model", client.Model())
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
}

// Configured reports whether an API key is available.
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

// Model returns the active model name, or "" when not configured.
func (s *Service) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return ""
	}
	return s.client.Model()
}

// Stream delegates to the active client.
func (s *Service) Stream(ctx context.Context, history []Message, onDelta func(string) error) (string, error) {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return "", ErrNotConfigured
	}
	return client.Stream(ctx, history, onDelta)
}

// Conversation keeps the ordered message history of one chat.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
}

// Ask appends prompt, streams the reply through s and records it.
// A reply that failed part way is recorded with whatever arrived.
func (c *Conversation) Ask(ctx context.Context, s Streamer, prompt string, onDelta func(string) error) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Message{Role: RoleUser, Content: prompt})
	history := make([]Message, len(c.messages))
	copy(history, c.messages)

	reply, err := s.Stream(ctx, history, onDelta)
	if err != nil && reply == "" {
		// Nothing arrived; drop the turn so the user can ask again.
		c.messages = c.messages[:len(c.messages)-1]
		return "", err
	}
	c.messages = append(c.messages, Message{Role: RoleAssistant, Content: reply})
	return reply, err
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Reset clears the history.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
