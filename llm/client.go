package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/karrtopelka/drill-bot/auth"
	"github.com/karrtopelka/drill-bot/key"
	"github.com/karrtopelka/drill-bot/network"
	"github.com/spf13/viper"
)

// Client issues chat completion requests against a single backend.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// New constructs a client for the given backend. An empty apiKey is
// allowed, local backends such as Ollama do not check it.
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    network.Client,
	}
}

// FromConfig builds a client from the active configuration. The API
// key is read from config first and falls back to the system keyring.
func FromConfig() *Client {
	apiKey := viper.GetString(key.LLMAPIKey)
	if apiKey == "" {
		apiKey, _ = auth.GetLLMKey()
	}

	return New(
		viper.GetString(key.LLMBaseURL),
		apiKey,
		viper.GetString(key.LLMModel),
	)
}

type chatRequest struct {
	Model          string    `json:"model"`
	Messages       []Message `json:"messages"`
	ResponseFormat any       `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string `json:"name"`
	Strict bool   `json:"strict"`
	Schema any    `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the request and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, r Request) (*Result, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: r.Messages,
	}

	if r.Schema != nil {
		name := r.SchemaName
		if name == "" {
			name = "response"
		}

		payload.ResponseFormat = responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   name,
				Strict: true,
				Schema: r.Schema,
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/v1/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err = json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("malformed completion response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("completion backend: %s", parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion backend: status %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion backend: no choices returned")
	}

	return &Result{Text: strings.TrimSpace(parsed.Choices[0].Message.Content)}, nil
}
