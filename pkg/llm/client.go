// Package llm talks to an OpenAI-compatible chat completions endpoint
// (Groq by default).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrLLM wraps every failure to obtain a reply.
var ErrLLM = errors.New("language model error")

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "qwen/qwen3-32b"
)

// DefaultSystemPrompt asks the model to phrase actions as the keywords the
// extractor looks for.
const DefaultSystemPrompt = "You are a smart home assistant. Respond with device commands like " +
	"'LED ON', 'LED OFF', 'FAN ON', 'FAN OFF', 'HEATER ON', 'HEATER OFF', 'LIGHTS ON', 'LIGHTS OFF' " +
	"based on user requests. Be helpful and explain your reasoning."

// Generator produces a reply for a system instruction and a user prompt.
type Generator interface {
	GenerateReply(ctx context.Context, system, user string) (string, error)
}

// Params are the sampling parameters sent with every request.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// DefaultParams returns the parameters the control panel uses.
func DefaultParams() Params {
	return Params{
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   150,
		TopP:        1,
	}
}

// Client is a chat completions client.
type Client struct {
	apiKey     string
	baseURL    string
	params     Params
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects Groq.
func NewClient(apiKey, baseURL string, params Params) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if params.Model == "" {
		params.Model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		params:     params,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.params.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateReply sends one non-streaming completion request. Failures are
// not retried.
func (c *Client) GenerateReply(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.params.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.params.Temperature,
		MaxTokens:   c.params.MaxTokens,
		TopP:        c.params.TopP,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshalling chat request: %v", ErrLLM, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: creating chat request: %v", ErrLLM, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: chat request: %w", ErrLLM, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: chat failed (status %d): %s", ErrLLM, resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding chat response: %v", ErrLLM, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned from chat API", ErrLLM)
	}

	reply := chatResp.Choices[0].Message.Content
	log.Debug().Str("model", c.params.Model).Int("reply_length", len(reply)).Msg("Completion received")
	return reply, nil
}
