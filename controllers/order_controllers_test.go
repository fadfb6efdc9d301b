package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/utils"
)

type orderView struct {
	ID          uint   `json:"id"`
	BranchID    uint   `json:"branch_id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Table       struct {
		TableNumber string `json:"table_number"`
	} `json:"table"`
	Lines []struct {
		ItemName string `json:"item_name"`
		Quantity int    `json:"quantity"`
	} `json:"lines"`
}

func TestOrdersRequireToken(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w, nil).Status)

	w = e.do(t, http.MethodGet, "/api/orders", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAndGetOrders(t *testing.T) {
	e := newTestEnv(t)
	_, order := e.placeOrder(t)
	chef := e.token(t, 5, utils.RoleChef, e.fx.Branch.ID)

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/orders?branch_id=%d", e.fx.Branch.ID), chef, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var orders []orderView
	decode(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderNumber, orders[0].OrderNumber)
	assert.Equal(t, "NEW", orders[0].Status)

	// branch_id defaults to the token's branch
	w = e.do(t, http.MethodGet, "/api/orders?status=new,accepted", chef, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &orders)
	assert.Len(t, orders, 1)

	w = e.do(t, http.MethodGet, "/api/orders?status=SERVED", chef, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &orders)
	assert.Empty(t, orders)

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), chef, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got orderView
	decode(t, w, &got)
	assert.Equal(t, "7", got.Table.TableNumber)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Paneer Tikka", got.Lines[0].ItemName)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestListOrdersValidatesQuery(t *testing.T) {
	e := newTestEnv(t)
	admin := e.token(t, 1, utils.RoleAdmin, 0)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/orders", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/orders?branch_id=x", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, fmt.Sprintf("/api/orders?branch_id=%d&status=COOKING", e.fx.Branch.ID), admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/orders/999", admin, nil).Code)
}

func TestUpdateOrderStatusBroadcasts(t *testing.T) {
	e := newTestEnv(t)
	_, order := e.placeOrder(t)
	chef := e.token(t, 5, utils.RoleChef, e.fx.Branch.ID)
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)

	w := e.do(t, http.MethodPatch, path, chef, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got orderView
	decode(t, w, &got)
	assert.Equal(t, "ACCEPTED", got.Status)

	events := e.notifier.events()
	require.Len(t, events, 1)
	assert.Equal(t, e.fx.Branch.ID, events[0].BranchID)
	assert.Equal(t, kds.EventOrderStatusUpdated, events[0].Msg.Event)
	ev, ok := events[0].Msg.Data.(kds.OrderEvent)
	require.True(t, ok)
	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, "7", ev.TableNumber)
}

func TestUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	e := newTestEnv(t)
	_, order := e.placeOrder(t)
	chef := e.token(t, 5, utils.RoleChef, e.fx.Branch.ID)
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)

	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodPatch, path, chef, map[string]string{"status": "SERVED"}).Code)
	assert.Equal(t, http.StatusConflict, e.do(t, http.MethodPatch, path, chef, map[string]string{"status": "EATEN"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPatch, path, chef, map[string]string{}).Code)
	assert.Empty(t, e.notifier.events())
}

func TestOrdersScopedToTokenBranch(t *testing.T) {
	e := newTestEnv(t)
	_, order := e.placeOrder(t)
	otherChef := e.token(t, 6, utils.RoleChef, e.fx.Branch.ID+1)

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), otherChef, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/orders?branch_id=%d", e.fx.Branch.ID), otherChef, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", order.ID), otherChef, map[string]string{"status": "ACCEPTED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := e.token(t, 1, utils.RoleAdmin, e.fx.Branch.ID+1)
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrdersRejectUnknownRole(t *testing.T) {
	e := newTestEnv(t)
	guest := e.token(t, 9, "guest", e.fx.Branch.ID)

	w := e.do(t, http.MethodGet, "/api/orders", guest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
