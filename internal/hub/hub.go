// Package hub fans hall events out to connected admin dashboards over
// websockets.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hall-management-backend/internal/hall"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Dashboards only send control frames.
	maxMessageSize = 512

	// Time allowed for the hub to accept a new client.
	registerWait = time.Second
)

// ErrClosed is returned by ServeWS once the hub has stopped.
var ErrClosed = errors.New("hub is not running")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of connected clients and broadcasts events to them.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*Client]bool
}

// New returns a hub; call Run to start it.
func New() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run processes registrations and broadcasts until ctx ends, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.WithField("user", client.user).Info("Dashboard client connected")
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				log.WithField("user", client.user).Warn("Client send buffer full; disconnecting")
				h.remove(client)
			}
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			log.Info("Hub is shutting down...")
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		logrus.WithField("user", client.user).Info("Dashboard client disconnected")
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish is a hall listener that queues ev for every client. Events are
// dropped when the hub falls behind.
func (h *Hub) Publish(ev hall.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode hall event")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		logrus.WithField("kind", ev.Kind).Warn("Hub broadcast queue full; dropping event")
	}
}

// ServeWS upgrades the request and attaches the connection to the hub. It
// answers 503 with ErrClosed once Run has returned.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, user string) error {
	select {
	case <-h.done:
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return ErrClosed
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{hub: h, conn: conn, user: user, send: make(chan []byte, 64)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrClosed
	case <-time.After(registerWait):
		logrus.WithField("user", user).Warn("Timeout registering client with hub")
		conn.Close()
		return ErrClosed
	}
	go client.writePump()
	go client.readPump()
	return nil
}
