package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/utils"
)

// BillingController settles table sessions at the counter.
type BillingController struct {
	Sessions *services.SessionService
	Bills    *services.BillService
}

func NewBillingController(sessions *services.SessionService, bills *services.BillService) *BillingController {
	return &BillingController{Sessions: sessions, Bills: bills}
}

// GenerateBill -> POST /api/billing/sessions/:session_id/bill
func (bc *BillingController) GenerateBill(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("session_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid session_id"))
		return
	}

	session, err := bc.Sessions.Get(c.Request.Context(), uint(sessionID))
	if errors.Is(err, services.ErrNoSession) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !canAccessBranch(c, session.BranchID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this branch"))
		return
	}

	bill, err := bc.Bills.GenerateForSession(c.Request.Context(), session.ID)
	switch {
	case errors.Is(err, services.ErrNothingToBill):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill generated", bill)
}

type payRequest struct {
	Method    string          `json:"method" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
}

// PayBill -> POST /api/billing/bills/:bill_id/pay
func (bc *BillingController) PayBill(c *gin.Context) {
	billID, err := strconv.ParseUint(c.Param("bill_id"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid bill_id"))
		return
	}

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	current, err := bc.Bills.Get(c.Request.Context(), uint(billID))
	if errors.Is(err, services.ErrBillNotFound) {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !canAccessBranch(c, current.BranchID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("no access to this branch"))
		return
	}

	in := services.PaymentInput{
		Method:    models.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method))),
		Amount:    req.Amount,
		Reference: req.Reference,
	}
	if userID := c.GetUint(utils.CtxUserID); userID != 0 {
		in.ReceivedBy = &userID
	}

	bill, err := bc.Bills.Pay(c.Request.Context(), current.ID, in)
	switch {
	case errors.Is(err, services.ErrBillNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
		return
	case errors.Is(err, services.ErrBillAlreadyPaid):
		utils.RespondError(c, http.StatusConflict, err)
		return
	case errors.Is(err, services.ErrInvalidPayment):
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	case err != nil:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bill paid", bill)
}
