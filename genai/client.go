// Package genai is a small REST client for the Gemini generateContent API.
package genai

import (
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 15 * time.Second
)

// Client talks to one Gemini model.
type Client struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
	// MaxOutputTokens caps every reply; zero leaves it to the service.
	MaxOutputTokens int
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.BaseURL = url
		}
	}
}

func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.Model = model
		}
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithMaxOutputTokens(n int) ClientOption {
	return func(c *Client) { c.MaxOutputTokens = n }
}

// NewClient creates a client authenticated with apiKey.
func NewClient(apiKey string, options ...ClientOption) *Client {
	client := &Client{
		BaseURL: defaultBaseURL,
		Model:   defaultModel,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				IdleConnTimeout:       30 * time.Second,
				ResponseHeaderTimeout: defaultTimeout,
			},
			Timeout: defaultTimeout,
		},
		MaxOutputTokens: 512,
	}
	for _, option := range options {
		option(client)
	}
	return client
}
