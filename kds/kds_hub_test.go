package kds

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hellodine/models"
	"github.com/yeremiapane/hellodine/utils"
)

type fakeConn struct {
	mu     sync.Mutex
	fail   bool
	msgs   [][]byte
	closed bool
	// block, when set, stalls writes until it is closed
	block chan struct{}
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.msgs = append(f.msgs, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func TestBroadcastReachesOnlyBranch(t *testing.T) {
	hub := NewHub()
	a, b, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Connect(1, a)
	hub.Connect(1, b)
	hub.Connect(2, other)

	n := hub.Broadcast(1, Message{Event: EventNewOrder, Data: map[string]int{"order_id": 9}})
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, a.received())
	assert.Equal(t, 1, b.received())
	assert.Zero(t, other.received())

	var got Message
	require.NoError(t, json.Unmarshal(a.msgs[0], &got))
	assert.Equal(t, EventNewOrder, got.Event)
}

func TestBroadcastPrunesFailedConnections(t *testing.T) {
	hub := NewHub()
	good, bad := &fakeConn{}, &fakeConn{fail: true}
	hub.Connect(1, good)
	hub.Connect(1, bad)

	assert.Equal(t, 1, hub.Broadcast(1, Message{Event: EventNewOrder}))
	assert.True(t, bad.closed)
	assert.Equal(t, 1, hub.Count(1))

	assert.Equal(t, 1, hub.Broadcast(1, Message{Event: EventOrderStatusUpdated}))
	assert.Equal(t, 2, good.received())
}

func TestBroadcastLogsDroppedConnection(t *testing.T) {
	var buf bytes.Buffer
	out := utils.ErrorLogger.Out
	utils.ErrorLogger.SetOutput(&buf)
	defer utils.ErrorLogger.SetOutput(out)

	hub := NewHub()
	hub.Connect(5, &fakeConn{fail: true})

	assert.Zero(t, hub.Broadcast(5, Message{Event: EventNewOrder}))
	assert.Zero(t, hub.Count(5))
	assert.Contains(t, buf.String(), "dropping kitchen connection: broken pipe")
	assert.Contains(t, buf.String(), "branch_id=5")
}

func TestStalledScreenDoesNotHoldUpBranch(t *testing.T) {
	hub := NewHub()
	stalled, good := &fakeConn{block: make(chan struct{})}, &fakeConn{}
	hub.Connect(1, stalled)
	hub.Connect(1, good)

	done := make(chan int, 1)
	go func() { done <- hub.Broadcast(1, Message{Event: EventNewOrder}) }()

	assert.Eventually(t, func() bool { return good.received() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, stalled.received())

	close(stalled.block)
	select {
	case n := <-done:
		assert.Equal(t, 2, n)
	case <-time.After(time.Second):
		t.Fatal("broadcast did not finish")
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Connect(3, c)
	hub.Disconnect(3, c)
	hub.Disconnect(3, c)

	assert.True(t, c.closed)
	assert.Zero(t, hub.Count(3))
	assert.Zero(t, hub.Broadcast(3, Message{Event: EventNewOrder}))
}

func TestBroadcastAsync(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{}
	hub.Connect(1, c)

	hub.BroadcastAsync(1, Message{Event: EventNewOrder})
	assert.Eventually(t, func() bool { return c.received() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNewOrderMessage(t *testing.T) {
	order := &models.Order{
		ID:          4,
		OrderNumber: "ORD-ABC",
		Status:      models.OrderNew,
		Total:       decimal.RequireFromString("462.00"),
		Table:       models.Table{TableNumber: "7"},
		Lines: []models.OrderLine{
			{ItemNameSnapshot: "Paneer Tikka", Quantity: 2, Notes: "less spicy"},
		},
	}

	msg := NewOrderMessage(order)
	assert.Equal(t, EventNewOrder, msg.Event)
	ev := msg.Data.(OrderEvent)
	assert.Equal(t, "7", ev.TableNumber)
	require.Len(t, ev.Lines, 1)
	assert.Equal(t, "less spicy", ev.Lines[0].Notes)

	status := StatusMessage(order).Data.(OrderEvent)
	assert.Empty(t, status.Lines)
	assert.Equal(t, "ORD-ABC", status.OrderNumber)
}
