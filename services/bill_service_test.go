package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/testutil"
)

func TestGenerateBillSumsOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := env.pair(t, testutil.CustomerWAID)

	env.add(t, session.ID, env.fx.PaneerTikka, 2)
	_, err := env.orders.Checkout(ctx, session.ID)
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	env.add(t, session.ID, env.fx.Lassi, 1)
	second, err := env.orders.Checkout(ctx, session.ID)
	require.NoError(t, err)

	bill, err := env.bills.GenerateForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bill.BillNumber, "BILL-"))
	assert.Equal(t, models.BillUnpaid, bill.Status)
	assert.Equal(t, 2, bill.OrderCount)
	require.Len(t, bill.Orders, 2)
	// 462.00 + (80 + 4.80 + 4.80 = 89.60, round-off 0.40) 90.00
	requireMoney(t, "520.00", bill.Subtotal, "subtotal")
	requireMoney(t, "0.40", bill.RoundOff, "round_off")
	requireMoney(t, "552.00", bill.Total, "total")

	// Cancelled orders drop out and the unpaid bill is reused.
	_, err = env.orders.UpdateStatus(ctx, second.ID, models.OrderCancelled)
	require.NoError(t, err)
	again, err := env.bills.GenerateForSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, again.ID)
	assert.Equal(t, 1, again.OrderCount)
	requireMoney(t, "462.00", again.Total, "total after cancel")

	var stored models.Bill
	require.NoError(t, env.db.First(&stored, bill.ID).Error)
	requireMoney(t, "462.00", stored.Total, "stored total")
}

func TestGenerateBillWithoutOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := env.pair(t, testutil.CustomerWAID)

	_, err := env.bills.GenerateForSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNothingToBill)

	_, err = env.bills.GenerateForSession(ctx, 4242)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPayBillClosesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := env.pair(t, testutil.CustomerWAID)
	env.add(t, session.ID, env.fx.PaneerTikka, 2)
	_, err := env.orders.Checkout(ctx, session.ID)
	require.NoError(t, err)
	bill, err := env.bills.GenerateForSession(ctx, session.ID)
	require.NoError(t, err)

	_, err = env.bills.Pay(ctx, bill.ID, PaymentInput{Method: models.PaymentUPI, Amount: money("400")})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = env.bills.Pay(ctx, bill.ID, PaymentInput{Method: "CHEQUE", Amount: money("462")})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	paid, err := env.bills.Pay(ctx, bill.ID, PaymentInput{Method: models.PaymentUPI, Amount: money("462"), Reference: "UPI-1"})
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, paid.Status)
	require.Len(t, paid.Payments, 1)
	assert.NotNil(t, paid.ClosedAt)

	_, err = env.sessions.Lookup(ctx, env.fx.Restaurant.ID, testutil.CustomerWAID)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = env.bills.Pay(ctx, bill.ID, PaymentInput{Method: models.PaymentCash, Amount: money("462")})
	assert.ErrorIs(t, err, ErrBillAlreadyPaid)

	_, err = env.bills.Pay(ctx, 9999, PaymentInput{Method: models.PaymentCash, Amount: money("1")})
	assert.ErrorIs(t, err, ErrBillNotFound)
}
