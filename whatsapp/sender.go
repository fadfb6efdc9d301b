package whatsapp

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
)

const (
	MaxButtons     = 3
	MaxListRows    = 10
	maxButtonTitle = 20
	maxRowTitle    = 24
	maxRowDesc     = 72
)

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Section struct {
	Title string `json:"title,omitempty"`
	Rows  []Row  `json:"rows"`
}

// Sender delivers replies to one WhatsApp user.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []Button) error
	SendList(ctx context.Context, to, body, buttonLabel string, sections []Section) error
}

var ErrTooManyButtons = errors.New("whatsapp: at most 3 buttons")

// CloudSender posts messages through the Cloud API for one business number.
type CloudSender struct {
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	HTTPClient    *http.Client
}

func NewCloudSender(baseURL, phoneNumberID, accessToken string) *CloudSender {
	return &CloudSender{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		PhoneNumberID: phoneNumberID,
		AccessToken:   accessToken,
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *CloudSender) SendText(ctx context.Context, to, body string) error {
	return s.post(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	})
}

func (s *CloudSender) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	if len(buttons) > MaxButtons {
		return ErrTooManyButtons
	}
	replies := make([]map[string]interface{}, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, map[string]interface{}{
			"type":  "reply",
			"reply": Button{ID: b.ID, Title: truncate(b.Title, maxButtonTitle)},
		})
	}
	return s.post(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": body},
			"action": map[string]interface{}{"buttons": replies},
		},
	})
}

func (s *CloudSender) SendList(ctx context.Context, to, body, buttonLabel string, sections []Section) error {
	clipped := make([]Section, 0, len(sections))
	for _, sec := range sections {
		if len(sec.Rows) > MaxListRows {
			return fmt.Errorf("whatsapp: section %q has %d rows, at most %d", sec.Title, len(sec.Rows), MaxListRows)
		}
		rows := make([]Row, 0, len(sec.Rows))
		for _, r := range sec.Rows {
			rows = append(rows, Row{ID: r.ID, Title: truncate(r.Title, maxRowTitle), Description: truncate(r.Description, maxRowDesc)})
		}
		clipped = append(clipped, Section{Title: truncate(sec.Title, maxRowTitle), Rows: rows})
	}
	if buttonLabel == "" {
		buttonLabel = "View"
	}
	return s.post(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type": "list",
			"body": map[string]string{"text": body},
			"action": map[string]interface{}{
				"button":   truncate(buttonLabel, maxButtonTitle),
				"sections": clipped,
			},
		},
	})
}

func (s *CloudSender) post(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.BaseURL, s.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cloud api returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// truncate cuts to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
