// Package kds fans kitchen events out to the display screens of one branch.
package kds

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/hellodine/utils"
)

// Event types
const (
	EventNewOrder           = "NEW_ORDER"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Socket wraps a gorilla connection so concurrent broadcasts never write to it at the same time.
type Socket struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewSocket(ws *websocket.Conn) *Socket {
	return &Socket{ws: ws}
}

func (s *Socket) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return s.ws.WriteMessage(messageType, data)
}

func (s *Socket) Close() error {
	return s.ws.Close()
}

// Hub menampung koneksi KDS per branch
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[Conn]struct{})}
}

// Connect -> menambahkan connection ke set milik branch
func (h *Hub) Connect(branchID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[branchID]
	if !ok {
		set = make(map[Conn]struct{})
		h.clients[branchID] = set
	}
	set[conn] = struct{}{}
}

// Disconnect -> melepaskan connection; aman dipanggil dua kali
func (h *Hub) Disconnect(branchID uint, conn Conn) {
	h.mu.Lock()
	set, ok := h.clients[branchID]
	_, present := set[conn]
	if ok && present {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.clients, branchID)
		}
	}
	h.mu.Unlock()
	if present {
		conn.Close()
	}
}

// Count returns the number of live connections for a branch.
func (h *Hub) Count(branchID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[branchID])
}

// Broadcast writes msg to every connection of the branch concurrently and
// returns how many writes succeeded. Connections whose write fails are dropped.
func (h *Hub) Broadcast(branchID uint, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return 0
	}

	h.mu.Lock()
	targets := make([]Conn, 0, len(h.clients[branchID]))
	for conn := range h.clients[branchID] {
		targets = append(targets, conn)
	}
	h.mu.Unlock()

	// Tiap layar ditulis di goroutine sendiri
	var (
		wg   sync.WaitGroup
		sent int64
	)
	for _, conn := range targets {
		wg.Add(1)
		go func(conn Conn) {
			defer wg.Done()
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{"branch_id": branchID, "event": msg.Event}).
					Warnf("dropping kitchen connection: %v", err)
				h.Disconnect(branchID, conn)
				return
			}
			atomic.AddInt64(&sent, 1)
		}(conn)
	}
	wg.Wait()

	utils.InfoLogger.WithFields(logrus.Fields{
		"branch_id": branchID,
		"event":     msg.Event,
		"delivered": sent,
	}).Info("kitchen broadcast")
	return int(sent)
}

// BroadcastAsync runs Broadcast in its own goroutine.
func (h *Hub) BroadcastAsync(branchID uint, msg Message) {
	go h.Broadcast(branchID, msg)
}
