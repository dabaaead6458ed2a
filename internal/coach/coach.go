// Package coach wraps the free-text coaching collaborator. Its entire
// contract is "send a formatted prompt, receive unstructured text"; nothing
// in the plan or progress paths depends on it, and its failure must never
// block a check-in.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrCoachUnavailable is returned for any transport or upstream failure.
var ErrCoachUnavailable = errors.New("coach service unavailable")

// Coach answers a free-text prompt with free text.
type Coach interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Config holds the chat endpoint settings.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// httpCoach implements Coach against an OpenAI-compatible chat completions
// endpoint.
type httpCoach struct {
	cfg    Config
	client *http.Client
}

// NewHTTPCoach creates a Coach that POSTs to cfg.Endpoint.
func NewHTTPCoach(cfg Config) Coach {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpCoach{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends one prompt and returns the model's text reply. The response is
// treated as an opaque blob; no structure beyond "some text came back" is
// assumed.
func (c *httpCoach) Chat(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Endpoint == "" {
		return "", ErrCoachUnavailable
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoachUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: upstream status %d", ErrCoachUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoachUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrCoachUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}
