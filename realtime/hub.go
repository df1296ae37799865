package realtime

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type userMessage struct {
	userID  string
	payload []byte
}

// Hub fans day-progress updates out to every socket a user has open.
// The clients map is owned by the Run goroutine; everything else talks
// to it over channels.
type Hub struct {
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan userMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan userMessage, 16),
	}
}

// Run owns the client registry. Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			log.Printf("ws client %s connected for user %s", c.id, c.userID)
		case c := <-h.unregister:
			if set := h.clients[c.userID]; set != nil {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clients, c.userID)
					}
				}
			}
		case m := <-h.broadcast:
			for c := range h.clients[m.userID] {
				select {
				case c.send <- m.payload:
				default:
					// slow consumer, drop it
					delete(h.clients[m.userID], c)
					close(c.send)
				}
			}
		}
	}
}

// PushProgress sends a payload to every socket the user has open.
// Non-blocking; silently drops when the hub is saturated.
func (h *Hub) PushProgress(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- userMessage{userID: userID, payload: data}:
	default:
	}
}

// WebSocketHandler upgrades the connection and subscribes it to the
// given user's progress stream.
func WebSocketHandler(h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "Missing userId", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &client{
			id:     uuid.New().String(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, 8),
		}
		h.register <- c
		go c.writePump()
		go c.readPump(h)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump exists to notice the peer going away.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
