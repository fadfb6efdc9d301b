package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/bot"
	"github.com/yeremiapane/hellodine/controllers"
	"github.com/yeremiapane/hellodine/intent"
	"github.com/yeremiapane/hellodine/kds"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/router"
	"github.com/yeremiapane/hellodine/services"
	"github.com/yeremiapane/hellodine/testutil"
	"github.com/yeremiapane/hellodine/utils"
	"github.com/yeremiapane/hellodine/whatsapp"
	"gorm.io/gorm"
)

const globalVerifyToken = "global-verify"

type sentMessage struct {
	Kind     string
	To       string
	Body     string
	Buttons  []whatsapp.Button
	Sections []whatsapp.Section
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) record(m sentMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	return f.record(sentMessage{Kind: "text", To: to, Body: body})
}

func (f *fakeSender) SendButtons(_ context.Context, to, body string, buttons []whatsapp.Button) error {
	return f.record(sentMessage{Kind: "buttons", To: to, Body: body, Buttons: buttons})
}

func (f *fakeSender) SendList(_ context.Context, to, body, _ string, sections []whatsapp.Section) error {
	return f.record(sentMessage{Kind: "list", To: to, Body: body, Sections: sections})
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type broadcast struct {
	BranchID uint
	Msg      kds.Message
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastAsync(branchID uint, msg kds.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{BranchID: branchID, Msg: msg})
}

func (f *fakeBroadcaster) events() []broadcast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]broadcast(nil), f.sent...)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	db       *gorm.DB
	fx       *testutil.Fixture
	clock    *testutil.Clock
	sessions *services.SessionService
	carts    *services.CartService
	orders   *services.OrderService
	bills    *services.BillService
	notifier *fakeBroadcaster
	sender   *fakeSender
	webhook  *controllers.WebhookController
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("controller-test-secret")

	db := testutil.OpenDB(t)
	clock := testutil.NewClock(testutil.Epoch)
	e := &testEnv{
		db:       db,
		fx:       testutil.Seed(t, db),
		clock:    clock,
		sessions: services.NewSessionService(db, clock.Now),
		carts:    services.NewCartService(db),
		orders:   services.NewOrderService(db, clock.Now, services.DefaultCheckoutBucket),
		bills:    services.NewBillService(db, clock.Now),
		notifier: &fakeBroadcaster{},
		sender:   &fakeSender{},
	}

	classifier, err := intent.NewClassifier(nil)
	require.NoError(t, err)
	handler := bot.New(bot.Deps{
		Sessions:   e.sessions,
		Menu:       services.NewMenuService(db),
		Carts:      e.carts,
		Orders:     e.orders,
		Bills:      e.bills,
		Classifier: classifier,
		Notifier:   e.notifier,
	})

	senderFor := func(*models.Restaurant) whatsapp.Sender { return e.sender }
	e.webhook = controllers.NewWebhookController(handler, e.sessions, senderFor, globalVerifyToken)
	e.router = router.SetupRouter(router.Deps{
		Webhook: e.webhook,
		Orders:  controllers.NewOrderController(e.orders, e.notifier),
		Billing: controllers.NewBillingController(e.sessions, e.bills),
		KDS:     controllers.NewKDSController(kds.NewHub()),
	})
	return e
}

func (e *testEnv) token(t *testing.T, userID uint, role string, branchID uint) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role, branchID, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

// placeOrder pairs the fixture customer and checks out two Paneer Tikka (₹462.00).
func (e *testEnv) placeOrder(t *testing.T) (*models.Session, *models.Order) {
	t.Helper()
	ctx := context.Background()
	session, err := e.sessions.Pair(ctx, e.fx.Restaurant.ID, testutil.CustomerWAID, services.PairingPayload{Token: testutil.TableToken})
	require.NoError(t, err)
	_, err = e.carts.AddLine(ctx, session.ID, services.LineInput{ItemID: e.fx.PaneerTikka.ID, Quantity: 2})
	require.NoError(t, err)
	order, err := e.orders.Checkout(ctx, session.ID)
	require.NoError(t, err)
	return session, order
}

func (e *testEnv) pairingText() string {
	return fmt.Sprintf("%s\nbranch=%d\ntable=%s\ntoken=%s", intent.PairingMarker, e.fx.Branch.ID, e.fx.Table.TableNumber, testutil.TableToken)
}
