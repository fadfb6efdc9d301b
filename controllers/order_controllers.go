package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

// Broadcaster pushes kitchen events to the branch's screens.
type Broadcaster interface {
	BroadcastAsync(branchID uint, msg kds.Message)
}

// OrderController serves the kitchen board.
type OrderController struct {
	Orders   *services.OrderService
	Notifier Broadcaster
}

func NewOrderController(orders *services.OrderService, notifier Broadcaster) *OrderController {
	return &OrderController{Orders: orders, Notifier: notifier}
}

// ListOrders -> GET /api/orders?branch_id=&status=NEW,ACCEPTED
func (oc *OrderController) ListOrders(c *gin.Context) {
	branchID, ok := requestedBranch(c)
	if !ok {
		return
	}

	var statuses []models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.OrderStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !status.Valid() {
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", part))
				return
			}
			statuses = append(statuses, status)
		}
	}

	orders, err := oc.Orders.ListForBranch(c.Request.Context(), branchID, statuses...)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders retrieved", orders)
}

// GetOrder -> GET /api/orders/:order_id
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order retrieved", order)
}

// UpdateOrderStatus -> PATCH /api/orders/:order_id/status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	current, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	next := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := oc.Orders.UpdateStatus(c.Request.Context(), current.ID, next)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
		return
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if oc.Notifier != nil {
		oc.Notifier.BroadcastAsync(order.BranchID, kds.StatusMessage(order))
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) loadOrder(c *gin.Context) (*models.Order, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order_id"))
		return nil, false
	}

	order, err := oc.Orders.Get(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrOrderNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return nil, false
	}
	if !canAccessBranch(c, order.BranchID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("order belongs to another branch"))
		return nil, false
	}
	return order, true
}

// requestedBranch reads branch_id from the query, defaulting to the token's branch.
func requestedBranch(c *gin.Context) (uint, bool) {
	var branchID uint
	if raw := c.Query("branch_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid branch_id"))
			return 0, false
		}
		branchID = uint(id)
	} else {
		branchID = c.GetUint(utils.CtxBranchID)
	}

	if branchID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("branch_id is required"))
		return 0, false
	}
	if !canAccessBranch(c, branchID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this branch"))
		return 0, false
	}
	return branchID, true
}

// canAccessBranch: admin dan token tanpa branch boleh semua cabang
func canAccessBranch(c *gin.Context, branchID uint) bool {
	if c.GetString(utils.CtxRole) == utils.RoleAdmin {
		return true
	}
	own := c.GetUint(utils.CtxBranchID)
	return own == 0 || own == branchID
}
