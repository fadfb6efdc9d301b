// Package whatsapp parses Cloud API webhook payloads and sends replies.
package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-Hub-Signature-256"

// InboundMessage is one customer message pulled from a webhook delivery.
type InboundMessage struct {
	PhoneNumberID string
	From          string
	ID            string
	Type          string
	// Text is the typed body, or the id of the tapped button or list row.
	Text string
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Metadata struct {
					PhoneNumberID string `json:"phone_number_id"`
				} `json:"metadata"`
				Messages []rawMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type rawMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		Type        string `json:"type"`
		ButtonReply struct {
			ID string `json:"id"`
		} `json:"button_reply"`
		ListReply struct {
			ID string `json:"id"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// ParseWebhook returns every message in the delivery. Status callbacks carry
// no messages and yield an empty slice.
func ParseWebhook(body []byte) ([]InboundMessage, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}

	var out []InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				out = append(out, InboundMessage{
					PhoneNumberID: change.Value.Metadata.PhoneNumberID,
					From:          m.From,
					ID:            m.ID,
					Type:          messageType(m),
					Text:          messageText(m),
				})
			}
		}
	}
	return out, nil
}

func messageType(m rawMessage) string {
	if m.Type == "" {
		return "text"
	}
	return m.Type
}

func messageText(m rawMessage) string {
	switch m.Type {
	case "", "text":
		return m.Text.Body
	case "interactive":
		switch m.Interactive.Type {
		case "button_reply":
			return m.Interactive.ButtonReply.ID
		case "list_reply":
			return m.Interactive.ListReply.ID
		}
	}
	return ""
}

// VerifySignature checks a "sha256=<hex>" header against the app secret.
func VerifySignature(body []byte, header, appSecret string) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
