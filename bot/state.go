package bot

import (
	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/models"
)

// Inbound is one customer message as delivered by the webhook.
type Inbound struct {
	// RestaurantID comes from the webhook path; zero when unknown.
	RestaurantID  uint
	PhoneNumberID string
	From          string
	MessageID     string
	Type          string
	Text          string
}

// State is the context of a single traversal. It is never persisted.
// Restaurant is set after ingest, Session after resolve_session; any node
// that runs later may rely on both being non-nil.
type State struct {
	Inbound Inbound

	Restaurant *models.Restaurant
	Session    *models.Session
	Language   string

	Intent   intent.Intent
	Entities intent.Entities
	Source   intent.Source

	Order    *models.Order
	Response *Response
	Err      error

	// Path lists the nodes visited, in order.
	Path []string
}

func (st *State) lang() string {
	if st.Language != "" {
		return st.Language
	}
	return intent.DetectLanguage(st.Inbound.Text, "en")
}

func (st *State) itemName() string {
	if st.Entities.ItemName != nil {
		return *st.Entities.ItemName
	}
	return ""
}

func (st *State) notes() string {
	if st.Entities.Notes != nil {
		return *st.Entities.Notes
	}
	return ""
}
