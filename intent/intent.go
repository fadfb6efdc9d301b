// Package intent maps an inbound chat message to one of a closed set of intents.
package intent

import "strings"

// PairingMarker is the first line of the message a table QR code pre-fills.
const PairingMarker = "HELLODINE_START"

// IsPairing reports whether the first line of text is the pairing marker.
func IsPairing(text string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(first) == PairingMarker
}

type Intent string

const (
	QRScan         Intent = "QR_SCAN"
	Browse         Intent = "BROWSE"
	ItemInfo       Intent = "ITEM_INFO"
	AddItem        Intent = "ADD_ITEM"
	RemoveItem     Intent = "REMOVE_ITEM"
	UpdateQty      Intent = "UPDATE_QTY"
	CartView       Intent = "CART_VIEW"
	ConfirmSummary Intent = "CONFIRM_SUMMARY"
	PlaceOrder     Intent = "PLACE_ORDER"
	Bill           Intent = "BILL"
	Other          Intent = "OTHER"
)

// All lists every intent in the closed enumeration.
var All = []Intent{QRScan, Browse, ItemInfo, AddItem, RemoveItem, UpdateQty, CartView, ConfirmSummary, PlaceOrder, Bill, Other}

// Parse returns the intent named s, if it belongs to the enumeration.
func Parse(s string) (Intent, bool) {
	for _, in := range All {
		if string(in) == s {
			return in, true
		}
	}
	return "", false
}

// Entities are the optional slots extracted alongside an intent.
type Entities struct {
	ItemName   *string `json:"item_name,omitempty"`
	Quantity   *int    `json:"quantity,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	CategoryID *uint   `json:"category_id,omitempty"`
	ItemID     *uint   `json:"item_id,omitempty"`
	IsVeg      *bool   `json:"is_veg,omitempty"`
}

// Source records which resolution step produced a Result.
type Source string

const (
	SourceMarker     Source = "marker"
	SourcePhrase     Source = "phrase"
	SourceReplyID    Source = "reply_id"
	SourceCapability Source = "capability"
	SourceFallback   Source = "fallback"
)

type Result struct {
	Intent   Intent
	Entities Entities
	Source   Source
}
