package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Capability is an external text classifier. It receives a fixed instruction
// and the customer's text and returns the model's raw reply.
type Capability interface {
	Classify(ctx context.Context, instruction, text string) (string, error)
}

// Instruction is sent with every capability call.
const Instruction = `You are an intent classifier for a restaurant WhatsApp ordering assistant.

Classify the customer message into exactly ONE of these intents:
- BROWSE          : wants to see the menu, categories or dishes
- ITEM_INFO       : asks about a specific dish (ingredients, spice, price)
- ADD_ITEM        : wants to add item(s) to the cart
- REMOVE_ITEM     : wants to remove an item from the cart
- UPDATE_QTY      : wants to change the quantity of an item in the cart
- CART_VIEW       : wants to see the current cart
- CONFIRM_SUMMARY : wants to review and confirm the order
- PLACE_ORDER     : explicitly confirms sending the order to the kitchen
- BILL            : wants the bill or to pay
- OTHER           : greetings, thanks, questions about the restaurant

Extract these entities when present:
- item_name (string), quantity (integer), notes (string, e.g. "less spicy")

Reply with ONLY a JSON object, for example:
{"intent": "ADD_ITEM", "entities": {"item_name": "paneer tikka", "quantity": 2, "notes": "extra spicy"}}`

const defaultCapabilityTimeout = 8 * time.Second

// Classifier resolves intents in a fixed order: the pairing marker, the phrase
// table, structured reply ids and finally the capability. It never fails; any
// capability problem yields Browse with empty entities.
type Classifier struct {
	capability Capability
	phrases    *phraseTable
	timeout    time.Duration
}

// NewClassifier builds a classifier over the embedded phrase table. capability may be nil.
func NewClassifier(capability Capability) (*Classifier, error) {
	return NewClassifierWithPhrases(capability, defaultPhrases)
}

// NewClassifierWithPhrases is NewClassifier with a custom phrase table.
func NewClassifierWithPhrases(capability Capability, phrasesYAML []byte) (*Classifier, error) {
	table, err := loadPhrases(phrasesYAML)
	if err != nil {
		return nil, err
	}
	return &Classifier{capability: capability, phrases: table, timeout: defaultCapabilityTimeout}, nil
}

func (c *Classifier) Classify(ctx context.Context, text string) Result {
	if IsPairing(text) {
		return Result{Intent: QRScan, Source: SourceMarker}
	}

	tokens := Tokens(text)
	if len(tokens) == 0 {
		return fallback()
	}

	if res, ok := c.phrases.match(tokens); ok {
		return res
	}

	if len(tokens) == 1 {
		if res, ok := replyID(tokens[0]); ok {
			return res
		}
	}

	if c.capability == nil {
		return fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := c.capability.Classify(ctx, Instruction, text)
	if err != nil {
		return fallback()
	}
	res, err := ParseCapabilityReply(raw)
	if err != nil {
		return fallback()
	}
	return res
}

func fallback() Result {
	return Result{Intent: Browse, Source: SourceFallback}
}

var fixedReplyIDs = map[string]Intent{
	"do_confirm":    PlaceOrder,
	"confirm_order": ConfirmSummary,
	"view_cart":     CartView,
	"edit_cart":     CartView,
	"show_menu":     Browse,
	"get_bill":      Bill,
}

// replyID maps ids of buttons and list rows sent in earlier replies.
func replyID(token string) (Result, bool) {
	if in, ok := fixedReplyIDs[token]; ok {
		return Result{Intent: in, Source: SourceReplyID}, true
	}

	if rest, ok := strings.CutPrefix(token, "cat_"); ok {
		res := Result{Intent: Browse, Source: SourceReplyID}
		if id, err := strconv.ParseUint(rest, 10, 64); err == nil {
			v := uint(id)
			res.Entities.CategoryID = &v
		}
		return res, true
	}

	if rest, ok := strings.CutPrefix(token, "item_"); ok {
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return Result{}, false
		}
		v, qty := uint(id), 1
		return Result{Intent: AddItem, Entities: Entities{ItemID: &v, Quantity: &qty}, Source: SourceReplyID}, true
	}

	if rest, ok := strings.CutPrefix(token, "info_"); ok {
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return Result{}, false
		}
		v := uint(id)
		return Result{Intent: ItemInfo, Entities: Entities{ItemID: &v}, Source: SourceReplyID}, true
	}
	return Result{}, false
}

type capabilityReply struct {
	Intent   string                 `json:"intent"`
	Entities map[string]interface{} `json:"entities"`
}

var errMalformedReply = errors.New("malformed classifier reply")

// ParseCapabilityReply decodes the strict {intent, entities} object, tolerating
// a surrounding markdown code fence. Intents outside the enumeration are rejected.
func ParseCapabilityReply(raw string) (Result, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Result{}, errMalformedReply
	}

	var reply capabilityReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return Result{}, fmt.Errorf("%w: %v", errMalformedReply, err)
	}

	in, ok := Parse(strings.ToUpper(strings.TrimSpace(reply.Intent)))
	if !ok || in == QRScan {
		return Result{}, fmt.Errorf("%w: intent %q", errMalformedReply, reply.Intent)
	}

	return Result{Intent: in, Entities: entitiesFrom(reply.Entities), Source: SourceCapability}, nil
}

func entitiesFrom(m map[string]interface{}) Entities {
	var e Entities
	if s, ok := stringValue(m["item_name"]); ok {
		e.ItemName = &s
	}
	if s, ok := stringValue(m["notes"]); ok {
		e.Notes = &s
	}
	if n, ok := intValue(m["quantity"]); ok && n >= 0 {
		e.Quantity = &n
	}
	if n, ok := intValue(m["category_id"]); ok && n > 0 {
		v := uint(n)
		e.CategoryID = &v
	}
	if n, ok := intValue(m["item_id"]); ok && n > 0 {
		v := uint(n)
		e.ItemID = &v
	}
	if b, ok := m["is_veg"].(bool); ok {
		e.IsVeg = &b
	}
	return e
}

func stringValue(v interface{}) (string, bool) {
	s, ok := v.(string)
	s = strings.TrimSpace(s)
	return s, ok && s != ""
}

func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), n == float64(int(n))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
