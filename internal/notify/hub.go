// Package notify pushes assignment changes to drivers connected over WebSocket.
package notify

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentUpdated   = "assignment.updated"
	EventAssignmentCancelled = "assignment.cancelled"
)

// Event is the JSON frame sent to a driver.
type Event struct {
	Type     string `json:"type"`
	DriverID uint   `json:"driver_id"`
	Payload  any    `json:"payload"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub fans events out to every connection a driver has open.
type Hub struct {
	clients   map[uint]map[Conn]bool
	broadcast chan Event
	done      chan struct{}
	mu        sync.Mutex
}

// NewHub creates a Hub and starts its broadcast loop.
func NewHub(buffer int) *Hub {
	h := &Hub{
		clients:   make(map[uint]map[Conn]bool),
		broadcast: make(chan Event, buffer),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.broadcast:
			for _, conn := range h.connsFor(ev.DriverID) {
				if err := conn.WriteJSON(ev); err != nil {
					if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
						logrus.WithField("driver_id", ev.DriverID).Info("Client connection closed during broadcast, unregistering.")
					} else {
						logrus.WithError(err).WithField("driver_id", ev.DriverID).Warn("Failed to send event to client, unregistering.")
					}
					h.Unregister(ev.DriverID, conn)
					_ = conn.Close()
				}
			}
		}
	}
}

func (h *Hub) connsFor(driverID uint) []Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]Conn, 0, len(h.clients[driverID]))
	for c := range h.clients[driverID] {
		conns = append(conns, c)
	}
	return conns
}

// Register adds a driver connection.
func (h *Hub) Register(driverID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[driverID]; !ok {
		h.clients[driverID] = make(map[Conn]bool)
	}
	h.clients[driverID][conn] = true
	logrus.WithFields(logrus.Fields{
		"driver_id": driverID,
		"conn_ptr":  fmt.Sprintf("%p", conn),
	}).Info("Driver registered with notification hub.")
}

// Unregister removes a driver connection.
func (h *Hub) Unregister(driverID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[driverID]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, driverID)
		}
	}
}

// Connections reports how many sockets a driver has open.
func (h *Hub) Connections(driverID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[driverID])
}

// Notify queues an event without blocking; it is dropped when the buffer is full.
func (h *Hub) Notify(driverID uint, eventType string, payload any) {
	select {
	case h.broadcast <- Event{Type: eventType, DriverID: driverID, Payload: payload}:
	default:
		logrus.WithField("driver_id", driverID).Warn("Notification channel full, dropping event.")
	}
}

// Close stops the broadcast loop.
func (h *Hub) Close() {
	close(h.done)
}
