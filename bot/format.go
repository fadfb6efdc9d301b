package bot

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

// format turns an error into customer guidance, or fills in the default
// guidance when no branch produced a reply.
func (b *Bot) format(ctx context.Context, st *State) error {
	if st.Err != nil {
		st.Response = renderError(st)
	}
	if st.Response == nil {
		if errors.Is(st.Err, ErrNoSender) {
			return nil
		}
		st.Response = Text(t(st.lang(), "default"))
	}
	st.Response.clip()
	return nil
}

func renderError(st *State) *Response {
	lang := st.lang()
	err := st.Err

	var checkout *services.CheckoutError
	var unavailable *services.ItemUnavailableError
	switch {
	case errors.Is(err, ErrNoSender):
		return nil
	case errors.As(err, &checkout):
		switch checkout.Reason {
		case services.ReasonSessionInactive:
			return Text(t(lang, "checkout_inactive"))
		case services.ReasonCartEmpty:
			return Text(t(lang, "checkout_empty"))
		case services.ReasonItemUnavailable:
			return Text(t(lang, "checkout_unavailable", checkout.Item))
		case services.ReasonDuplicate:
			return Text(t(lang, "checkout_duplicate"))
		}
	case errors.As(err, &unavailable):
		return Text(t(lang, "item_unavailable", unavailable.Item))
	case errors.Is(err, services.ErrUnknownTenant):
		return Text(t(lang, "unknown_tenant"))
	case errors.Is(err, services.ErrInvalidToken):
		return Text(t(lang, "invalid_token"))
	case errors.Is(err, services.ErrTableNotFound):
		return Text(t(lang, "table_not_found"))
	case errors.Is(err, services.ErrNoSession):
		return Text(t(lang, "no_session"))
	case errors.Is(err, services.ErrItemNotFound):
		return Text(t(lang, "item_not_found", st.itemName()))
	case errors.Is(err, services.ErrLineNotFound):
		return Text(t(lang, "line_not_found", st.itemName()))
	case errors.Is(err, services.ErrInvalidQuantity):
		return Text(t(lang, "invalid_quantity"))
	case errors.Is(err, services.ErrNothingToBill):
		return Text(t(lang, "nothing_to_bill"))
	}

	utils.ErrorLogger.WithFields(logrus.Fields{
		"from": st.Inbound.From,
		"path": st.Path,
	}).Errorf("message processing failed: %v", err)
	return Text(t(lang, "generic_error"))
}

// IsDomainError reports whether err is an expected outcome rendered as guidance
// rather than a fault.
func IsDomainError(err error) bool {
	var checkout *services.CheckoutError
	return errors.As(err, &checkout) ||
		errors.Is(err, ErrNoSender) ||
		errors.Is(err, services.ErrItemUnavailable) ||
		errors.Is(err, services.ErrUnknownTenant) ||
		errors.Is(err, services.ErrInvalidToken) ||
		errors.Is(err, services.ErrTableNotFound) ||
		errors.Is(err, services.ErrNoSession) ||
		errors.Is(err, services.ErrItemNotFound) ||
		errors.Is(err, services.ErrLineNotFound) ||
		errors.Is(err, services.ErrInvalidQuantity) ||
		errors.Is(err, services.ErrNothingToBill)
}
