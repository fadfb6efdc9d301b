package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ErrEmptyReply is returned when the model produced no candidate text.
var ErrEmptyReply = errors.New("genai: empty reply")

// Generate sends one system instruction plus one user turn and returns the
// concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, system, text string, temperature float64) (string, error) {
	if c.Model == "" {
		return "", fmt.Errorf("model is required")
	}
	if c.APIKey == "" {
		return "", fmt.Errorf("api key is required")
	}

	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{Temperature: temperature, MaxOutputTokens: c.MaxOutputTokens},
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.BaseURL, "/"), url.PathEscape(c.Model), url.QueryEscape(c.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("API error %d: %s", out.Error.Code, out.Error.Message)
	}
	if len(out.Candidates) == 0 {
		return "", ErrEmptyReply
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	reply := strings.TrimSpace(sb.String())
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// Classify satisfies intent.Capability. Low temperature keeps the JSON stable.
func (c *Client) Classify(ctx context.Context, instruction, text string) (string, error) {
	return c.Generate(ctx, instruction, text, 0.1)
}

// Answer satisfies bot.Answerer for free-form chat replies.
func (c *Client) Answer(ctx context.Context, system, text string) (string, error) {
	return c.Generate(ctx, system, text, 0.7)
}
