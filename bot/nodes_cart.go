package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

// cart handles ADD_ITEM, REMOVE_ITEM, UPDATE_QTY and CART_VIEW.
func (b *Bot) cart(ctx context.Context, st *State) error {
	switch st.Intent {
	case intent.AddItem:
		return b.addItem(ctx, st)
	case intent.RemoveItem:
		return b.removeItem(ctx, st)
	case intent.UpdateQty:
		return b.updateQuantity(ctx, st)
	}

	cart, err := b.deps.Carts.View(ctx, st.Session.ID)
	if err != nil {
		return err
	}
	st.Response = b.cartResponse(st, cart)
	return nil
}

func (b *Bot) addItem(ctx context.Context, st *State) error {
	lang := st.lang()
	item, ok, err := b.lookupItem(ctx, st)
	if err != nil {
		return err
	}
	if !ok {
		st.Response = Text(t(lang, "ask_item"))
		return nil
	}

	qty := 1
	if st.Entities.Quantity != nil {
		qty = *st.Entities.Quantity
	}
	in := services.LineInput{ItemID: item.ID, Quantity: qty, Notes: st.notes()}

	// Sizes and add-ons are picked up when the customer names them anywhere in the message.
	hint := intent.Normalize(strings.Join([]string{st.Inbound.Text, st.itemName(), st.notes()}, " "))
	variantName := ""
	for _, v := range item.Variants {
		if strings.Contains(hint, intent.Normalize(v.Name)) {
			id := v.ID
			in.VariantID = &id
			variantName = v.Name
			break
		}
	}
	for _, m := range item.Modifiers {
		if strings.Contains(hint, intent.Normalize(m.Name)) {
			in.ModifierIDs = append(in.ModifierIDs, m.ID)
		}
	}

	cart, err := b.deps.Carts.AddLine(ctx, st.Session.ID, in)
	if err != nil {
		return err
	}

	name := item.Name
	if variantName != "" {
		name = fmt.Sprintf("%s (%s)", item.Name, variantName)
	}
	body := []string{t(lang, "added", vegMark(item.IsVeg), name, qty)}
	if in.Notes != "" {
		body = append(body, t(lang, "note", in.Notes))
	}
	body = append(body, "", t(lang, "cart_total", utils.FormatRupee(cart.Total)), "", t(lang, "what_next"))

	st.Response = Buttons(strings.Join(body, "\n"),
		Button{ID: "view_cart", Title: t(lang, "btn_view_cart")},
		Button{ID: "show_menu", Title: t(lang, "btn_add_more")},
		Button{ID: "confirm_order", Title: t(lang, "btn_place_order")},
	)
	return nil
}

func (b *Bot) removeItem(ctx context.Context, st *State) error {
	lang := st.lang()
	name := st.itemName()
	if name == "" {
		st.Response = Text(t(lang, "ask_remove"))
		return nil
	}

	line, err := b.deps.Carts.FindLineByItemName(ctx, st.Session.ID, name)
	if err != nil {
		return err
	}
	cart, err := b.deps.Carts.RemoveLine(ctx, st.Session.ID, line.ID)
	if err != nil {
		return err
	}

	st.Response = b.cartResponse(st, cart)
	st.Response.Body = t(lang, "removed", line.MenuItem.Name) + "\n\n" + st.Response.Body
	return nil
}

func (b *Bot) updateQuantity(ctx context.Context, st *State) error {
	lang := st.lang()
	name := st.itemName()
	if name == "" {
		st.Response = Text(t(lang, "ask_update"))
		return nil
	}
	if st.Entities.Quantity == nil {
		st.Response = Text(t(lang, "ask_quantity", name))
		return nil
	}

	line, err := b.deps.Carts.FindLineByItemName(ctx, st.Session.ID, name)
	if err != nil {
		return err
	}
	qty := *st.Entities.Quantity
	cart, err := b.deps.Carts.UpdateQuantity(ctx, st.Session.ID, line.ID, qty)
	if err != nil {
		return err
	}

	header := t(lang, "updated", line.MenuItem.Name, qty)
	if qty <= 0 {
		header = t(lang, "removed", line.MenuItem.Name)
	}
	st.Response = b.cartResponse(st, cart)
	st.Response.Body = header + "\n\n" + st.Response.Body
	return nil
}

func (b *Bot) cartResponse(st *State, cart *models.Cart) *Response {
	lang := st.lang()
	if len(cart.Lines) == 0 {
		return Text(t(lang, "cart_empty"))
	}

	body := t(lang, "cart_title", st.Session.Table.TableNumber) + "\n\n" +
		cartLines(cart.Lines) + "\n\n" + totalsBlock(lang, cart.Subtotal, cart.CGST, cart.SGST, cart.RoundOff, cart.Total) +
		"\n\n" + t(lang, "cart_footer")
	return Buttons(body,
		Button{ID: "confirm_order", Title: t(lang, "btn_place_order")},
		Button{ID: "show_menu", Title: t(lang, "btn_add_more")},
	)
}

func (b *Bot) checkoutPreview(ctx context.Context, st *State) error {
	lang := st.lang()
	cart, err := b.deps.Carts.View(ctx, st.Session.ID)
	if err != nil {
		return err
	}
	if len(cart.Lines) == 0 {
		st.Response = Text(t(lang, "checkout_empty"))
		return nil
	}

	body := t(lang, "summary_title") + "\n\n" + cartLines(cart.Lines) + "\n\n" +
		totalsBlock(lang, cart.Subtotal, cart.CGST, cart.SGST, cart.RoundOff, cart.Total) +
		"\n\n" + t(lang, "summary_footer")
	st.Response = Buttons(body,
		Button{ID: "do_confirm", Title: t(lang, "btn_confirm")},
		Button{ID: "edit_cart", Title: t(lang, "btn_edit_cart")},
	)
	return nil
}

// placeOrder checks out the cart and tells the kitchen. The broadcast does not
// block the reply.
func (b *Bot) placeOrder(ctx context.Context, st *State) error {
	order, err := b.deps.Orders.Checkout(ctx, st.Session.ID)
	if err != nil {
		return err
	}
	st.Order = order

	if b.deps.Notifier != nil {
		b.deps.Notifier.BroadcastAsync(order.BranchID, kds.NewOrderMessage(order))
	}

	st.Response = Buttons(
		t(st.lang(), "order_placed", order.OrderNumber, order.Table.TableNumber, utils.FormatRupee(order.Total)),
		Button{ID: "show_menu", Title: t(st.lang(), "btn_add_more")},
		Button{ID: "get_bill", Title: t(st.lang(), "btn_bill")},
	)
	return nil
}

func cartLines(lines []models.CartLine) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		name := l.MenuItem.Name
		if l.Variant != nil {
			name = fmt.Sprintf("%s (%s)", name, l.Variant.Name)
		}
		s := fmt.Sprintf("• %s ×%d — %s", name, l.Quantity, utils.FormatRupee(l.LineTotal))
		for _, m := range l.Modifiers {
			s += "\n  + " + m.NameSnapshot
		}
		if l.Notes != "" {
			s += "\n  📝 " + l.Notes
		}
		out = append(out, s)
	}
	return strings.Join(out, "\n")
}
