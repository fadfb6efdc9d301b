package bot

import (
	"context"
	"strings"

	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
)

// ingest resolves the tenant from the receiving business number, or from the
// webhook path when the payload carries none.
func (b *Bot) ingest(ctx context.Context, st *State) error {
	in := st.Inbound
	if strings.TrimSpace(in.From) == "" {
		return ErrNoSender
	}

	var restaurant *models.Restaurant
	var err error
	switch {
	case in.PhoneNumberID != "":
		restaurant, err = b.deps.Sessions.ResolveTenant(ctx, in.PhoneNumberID)
		if err == nil && in.RestaurantID != 0 && restaurant.ID != in.RestaurantID {
			err = services.ErrUnknownTenant
		}
	case in.RestaurantID != 0:
		restaurant, err = b.deps.Sessions.Restaurant(ctx, in.RestaurantID)
	default:
		err = services.ErrUnknownTenant
	}
	if err != nil {
		return err
	}
	st.Restaurant = restaurant
	return nil
}

// resolveSession pairs on a QR message, otherwise continues the customer's active session.
func (b *Bot) resolveSession(ctx context.Context, st *State) error {
	var session *models.Session
	var err error

	if payload, ok := services.ParsePairingPayload(st.Inbound.Text); ok {
		session, err = b.deps.Sessions.Pair(ctx, st.Restaurant.ID, st.Inbound.From, payload)
		if err != nil {
			return err
		}
		st.Intent, st.Source = intent.QRScan, intent.SourceMarker
	} else {
		session, err = b.deps.Sessions.Lookup(ctx, st.Restaurant.ID, st.Inbound.From)
		if err != nil {
			return err
		}
	}

	st.Session = session
	st.Language = session.Customer.PreferredLanguage
	return nil
}

func (b *Bot) detectLanguage(ctx context.Context, st *State) error {
	customer := &st.Session.Customer
	lang := intent.DetectLanguage(st.Inbound.Text, customer.PreferredLanguage)
	if lang != customer.PreferredLanguage {
		if err := b.deps.Sessions.UpdateLanguage(ctx, customer.ID, lang); err != nil {
			return err
		}
		customer.PreferredLanguage = lang
	}
	st.Language = lang
	return nil
}

func (b *Bot) classify(ctx context.Context, st *State) error {
	if st.Intent == intent.QRScan {
		return nil
	}
	res := b.deps.Classifier.Classify(ctx, st.Inbound.Text)
	st.Intent, st.Entities, st.Source = res.Intent, res.Entities, res.Source
	return nil
}
