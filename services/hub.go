package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"quizparty/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Inbound frames above this rate are dropped.
const (
	inboundRate  = 10
	inboundBurst = 20
)

// Hub owns all websocket connections and fans room broadcasts out to the
// clients that joined the room.
type Hub struct {
	clients    map[game.ClientID]*Client
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	dispatcher *Dispatcher
}

// Client is one websocket connection with its identity and, once it
// created or joined a room, the room code it belongs to.
type Client struct {
	hub      *Hub
	id       game.ClientID
	socket   *websocket.Conn
	send     chan []byte
	roomCode string // guarded by hub.mutex
	limiter  *rate.Limiter
}

// Message is an inbound client event.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[game.ClientID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetDispatcher wires inbound events; must be called before Run.
func (h *Hub) SetDispatcher(d *Dispatcher) {
	h.dispatcher = d
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mutex.Unlock()
			log.Printf("Client %s connected - total clients: %d", client.id, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client.id]
			if ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()

			if ok {
				log.Printf("Client %s disconnected - total clients: %d", client.id, total)
				if h.dispatcher != nil {
					h.dispatcher.Disconnect(client.id)
				}
			}
		}
	}
}

// JoinRoom binds the client to a room code for broadcast fan-out.
func (h *Hub) JoinRoom(id game.ClientID, code string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if client, ok := h.clients[id]; ok {
		client.roomCode = code
	}
}

// SendTo delivers one message to a single client.
func (h *Hub) SendTo(id game.ClientID, messageType string, payload any) {
	data, err := json.Marshal(outMessage{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}

	h.mutex.RLock()
	client, ok := h.clients[id]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping %s", id, messageType)
	}
}

// BroadcastToRoom delivers one message to every client in the room.
func (h *Hub) BroadcastToRoom(code string, messageType string, payload any) {
	data, err := json.Marshal(outMessage{Type: messageType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", messageType, err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, client := range h.clients {
		if !strings.EqualFold(client.roomCode, code) {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("Client %s send buffer full, dropping %s", client.id, messageType)
		}
	}
}

// RegisterClient wraps a fresh websocket connection and starts its pumps.
func (h *Hub) RegisterClient(conn *websocket.Conn) *Client {
	client := &Client{
		hub:     h,
		id:      game.ClientID(uuid.NewString()),
		socket:  conn,
		send:    make(chan []byte, 256),
		limiter: rate.NewLimiter(rate.Limit(inboundRate), inboundBurst),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			continue
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message from %s: %v", c.id, err)
			continue
		}

		if c.hub.dispatcher != nil {
			c.hub.dispatcher.Dispatch(c.id, msg)
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}

	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}
