package bot

import "github.com/yeremiapane/hellodine/intent"

// RouteAfterIntent maps the classified intent to its branch node. A set error
// flag goes straight to the formatter, as does any unmatched intent.
func RouteAfterIntent(in intent.Intent, hasErr bool) string {
	if hasErr {
		return NodeFormat
	}
	switch in {
	case intent.QRScan, intent.Browse:
		return NodeMenu
	case intent.ItemInfo:
		return NodeItemInfo
	case intent.AddItem, intent.RemoveItem, intent.UpdateQty, intent.CartView:
		return NodeCart
	case intent.ConfirmSummary:
		return NodeCheckoutPreview
	case intent.PlaceOrder:
		return NodePlaceOrder
	case intent.Bill:
		return NodeBill
	case intent.Other:
		return NodeChat
	}
	return NodeFormat
}

// unlessError continues to next, or to the formatter once an error is set.
func unlessError(next string) Brancher {
	return func(st *State) string {
		if st.Err != nil {
			return NodeFormat
		}
		return next
	}
}

func identityRoutes(nodes ...string) map[string]string {
	routes := make(map[string]string, len(nodes))
	for _, n := range nodes {
		routes[n] = n
	}
	return routes
}
