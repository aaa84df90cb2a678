/*
Package chat contains the real-time broadcast hub and its connection handling.

The Hub owns the registry of live connections. Every registry mutation
(register, join, message fan-out, unregister) travels on one event channel
consumed by a single Run goroutine, so events from the same connection apply
in the order they were submitted and connection state needs no per-field
locking; the mutex only guards snapshot reads from other goroutines.
Messages are stamped at receipt and delivered to every registered connection,
including the sender. Nothing is persisted and nothing is redelivered: a
connection only sees messages broadcast while it was registered.
*/
package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"taskhub/internal/pkg/logx"
)

const (
	// DefaultDisplayName is bound to every connection until a join event renames it.
	DefaultDisplayName = "Anonymous"

	eventChannelBuffer = 1024
)

type eventKind int

const (
	evRegister eventKind = iota
	evUnregister
	evJoin
	evMessage
)

// hubEvent is one unit of work for the Run loop.
type hubEvent struct {
	kind   eventKind
	client *Client
	name   string // evJoin: the claimed display name
	text   string // evMessage: the chat text
}

// Hub is the in-memory registry and broadcaster for live chat connections.
type Hub struct {
	// clients holds the currently registered connections, keyed by connection id.
	clients map[string]*Client

	// events carries all registry mutations in submission order.
	events chan hubEvent

	// stopChan signals Run to terminate; done is closed when it has.
	stopChan     chan struct{}
	done         chan struct{}
	shutdownOnce sync.Once

	// mu guards snapshot reads of the clients map from outside the Run goroutine.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run in its own goroutine before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		events:   make(chan hubEvent, eventChannelBuffer),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "hub").Logger(),
	}
}

// Run is the hub's event loop. It applies registration, name rebinds, message
// fan-out, and deregistration on a single goroutine, in submission order.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case ev := <-h.events:
			switch ev.kind {
			case evRegister:
				h.addClient(ev.client)
			case evUnregister:
				h.removeClient(ev.client)
			case evJoin:
				h.handleJoin(ev.client, ev.name)
			case evMessage:
				h.handleMessage(ev.client, ev.text)
			}

		case <-h.stopChan:
			h.closeAllClients()
			return
		}
	}
}

// Register queues a connection for registration.
func (h *Hub) Register(client *Client) {
	h.dispatch(hubEvent{kind: evRegister, client: client})
}

// Unregister queues a connection for removal. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.dispatch(hubEvent{kind: evUnregister, client: client})
}

// Join queues a display-name rebind for the connection. The name is taken as
// claimed: no validation and no uniqueness check.
func (h *Hub) Join(client *Client, displayName string) {
	h.dispatch(hubEvent{kind: evJoin, client: client, name: displayName})
}

// Message queues chat text for broadcast to every registered connection.
func (h *Hub) Message(client *Client, text string) {
	h.dispatch(hubEvent{kind: evMessage, client: client, text: text})
}

func (h *Hub) dispatch(ev hubEvent) {
	select {
	case h.events <- ev:
	case <-h.done:
	}
}

// Shutdown stops the event loop and closes every registered connection.
// Safe to call multiple times, including concurrently.
func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.stopChan)
	})

	<-h.done

	h.logger.Info().Msg("Hub shutdown complete.")
}

// ClientCount returns the number of currently registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("client_id", client.id).
		Int("total_clients", total).
		Msg("Client registered.")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if ok && current == client {
		delete(h.clients, client.id)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok || current != client {
		return
	}

	client.closeSend()

	h.logger.Info().
		Str("client_id", client.id).
		Str("display_name", client.displayName).
		Int("total_clients", total).
		Msg("Client unregistered.")
}

func (h *Hub) handleJoin(client *Client, displayName string) {
	if !h.isRegistered(client) {
		return
	}

	if displayName == "" {
		displayName = DefaultDisplayName
	}

	// Only the Run goroutine touches displayName after registration.
	client.displayName = displayName

	h.logger.Info().
		Str("client_id", client.id).
		Str("display_name", displayName).
		Msg("Client joined the chat.")
}

func (h *Hub) handleMessage(client *Client, text string) {
	if !h.isRegistered(client) {
		return
	}

	msg := Message{
		DisplayName: client.displayName,
		Text:        text,
		Timestamp:   time.Now().UnixMilli(),
	}

	frame, err := EncodeFrame(EventMessage, msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode broadcast frame.")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, target := range targets {
		select {
		case target.send <- frame:
		default:
			// A full send buffer marks the consumer too slow to keep; drop
			// the connection rather than stall the fan-out.
			h.logger.Warn().
				Str("client_id", target.id).
				Msg("Client send buffer full, unregistering slow consumer.")

			select {
			case h.events <- hubEvent{kind: evUnregister, client: target}:
			default:
				h.logger.Warn().Msg("Event channel full, skipping slow consumer cleanup.")
			}
		}
	}
}

func (h *Hub) isRegistered(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	current, ok := h.clients[client.id]
	return ok && current == client
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.closeSend()
		c.closeConn()
	}

	h.logger.Info().Int("closed", len(clients)).Msg("Closed all client connections.")
}
