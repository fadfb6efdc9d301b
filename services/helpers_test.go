package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	fx       *testutil.Fixture
	clock    *testutil.Clock
	sessions *SessionService
	carts    *CartService
	orders   *OrderService
	bills    *BillService
	menu     *MenuService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	clock := testutil.NewClock(testutil.Epoch)
	return &testEnv{
		db:       db,
		fx:       testutil.Seed(t, db),
		clock:    clock,
		sessions: NewSessionService(db, clock.Now),
		carts:    NewCartService(db),
		orders:   NewOrderService(db, clock.Now, DefaultCheckoutBucket),
		bills:    NewBillService(db, clock.Now),
		menu:     NewMenuService(db),
	}
}

func (e *testEnv) pair(t *testing.T, waUserID string) *models.Session {
	t.Helper()
	session, err := e.sessions.Pair(context.Background(), e.fx.Restaurant.ID, waUserID, PairingPayload{Token: testutil.TableToken})
	require.NoError(t, err)
	return session
}

func (e *testEnv) add(t *testing.T, sessionID uint, item models.MenuItem, qty int) *models.Cart {
	t.Helper()
	cart, err := e.carts.AddLine(context.Background(), sessionID, LineInput{ItemID: item.ID, Quantity: qty})
	require.NoError(t, err)
	return cart
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	require.Equal(t, want, got.StringFixed(2), field)
}
