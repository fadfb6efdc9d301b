package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deliveryJSON = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "918000000000", "phone_number_id": "1100220033"},
        "messages": [
          {"from": "919800000001", "id": "wamid.1", "type": "text", "text": {"body": "show menu"}},
          {"from": "919800000001", "id": "wamid.2", "type": "interactive",
           "interactive": {"type": "button_reply", "button_reply": {"id": "do_confirm", "title": "Confirm"}}},
          {"from": "919800000001", "id": "wamid.3", "type": "interactive",
           "interactive": {"type": "list_reply", "list_reply": {"id": "item_4", "title": "Naan"}}},
          {"from": "919800000001", "id": "wamid.4", "type": "image", "image": {"id": "m1"}}
        ]
      }
    }]
  }]
}`

func TestParseWebhook(t *testing.T) {
	msgs, err := ParseWebhook([]byte(deliveryJSON))
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	assert.Equal(t, InboundMessage{PhoneNumberID: "1100220033", From: "919800000001", ID: "wamid.1", Type: "text", Text: "show menu"}, msgs[0])
	assert.Equal(t, "do_confirm", msgs[1].Text)
	assert.Equal(t, "interactive", msgs[1].Type)
	assert.Equal(t, "item_4", msgs[2].Text)
	assert.Equal(t, "image", msgs[3].Type)
	assert.Empty(t, msgs[3].Text)
}

func TestParseWebhookStatusOnly(t *testing.T) {
	msgs, err := ParseWebhook([]byte(`{"entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.1","status":"read"}]}}]}]}`))
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = ParseWebhook([]byte(`not json`))
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(deliveryJSON)
	mac := hmac.New(sha256.New, []byte("app-secret"))
	mac.Write(body)
	header := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifySignature(body, header, "app-secret"))
	assert.False(t, VerifySignature(body, header, "other-secret"))
	assert.False(t, VerifySignature(append(body, ' '), header, "app-secret"))
	assert.False(t, VerifySignature(body, "", "app-secret"))
	assert.False(t, VerifySignature(body, "sha256=zz", "app-secret"))
}
