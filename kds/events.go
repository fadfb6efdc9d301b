package kds

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/models"
)

// OrderEvent is the payload of NEW_ORDER and ORDER_STATUS_UPDATED.
type OrderEvent struct {
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	TableNumber string             `json:"table_number,omitempty"`
	Status      models.OrderStatus `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	Lines       []OrderEventLine   `json:"lines,omitempty"`
}

type OrderEventLine struct {
	Name     string `json:"name"`
	Variant  string `json:"variant,omitempty"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

func orderEvent(order *models.Order, withLines bool) OrderEvent {
	ev := OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TableNumber: order.Table.TableNumber,
		Total:       order.Total,
	}
	if withLines {
		for _, l := range order.Lines {
			ev.Lines = append(ev.Lines, OrderEventLine{
				Name:     l.ItemNameSnapshot,
				Variant:  l.VariantNameSnapshot,
				Quantity: l.Quantity,
				Notes:    l.Notes,
			})
		}
	}
	return ev
}

// NewOrderMessage builds the NEW_ORDER event for a freshly placed order.
func NewOrderMessage(order *models.Order) Message {
	return Message{Event: EventNewOrder, Data: orderEvent(order, true)}
}

func StatusMessage(order *models.Order) Message {
	return Message{Event: EventOrderStatusUpdated, Data: orderEvent(order, false)}
}
