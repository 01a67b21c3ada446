package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/suar-net/hookmirror/internal/hub"
	"github.com/suar-net/hookmirror/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The viewer UI is served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient wraps a websocket connection with a write mutex so the hub, the
// pong replies and the keep-alive pinger never write concurrently.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// inboundMessage is a control message from the viewer; anything unparseable
// is ignored.
type inboundMessage struct {
	Type string `json:"type"`
}

// WSHandler upgrades viewer connections and ties them into the broadcast hub.
type WSHandler struct {
	userService   service.IUserService
	viewerService service.IViewerService
	liveHub       *hub.Hub
	logger        *log.Logger
}

func NewWSHandler(users service.IUserService, viewer service.IViewerService, liveHub *hub.Hub, l *log.Logger) *WSHandler {
	return &WSHandler{
		userService:   users,
		viewerService: viewer,
		liveHub:       liveHub,
		logger:        l,
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	// Reject the handshake before registering anything when the target user
	// does not exist.
	if _, err := h.userService.Get(r.Context(), username); err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "User not found"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	client := &wsClient{conn: conn}
	h.liveHub.Register(username, client)
	defer func() {
		h.liveHub.Unregister(username, client)
		conn.Close()
	}()

	count, err := h.viewerService.Count(r.Context(), username)
	if err != nil {
		h.logger.Printf("Failed to count requests for %q: %v", username, err)
	}

	if err := client.WriteJSON(hub.Event{
		Event:        hub.EventConnected,
		Username:     username,
		RequestCount: count,
	}); err != nil {
		return
	}

	// Server-side keep-alive so idle viewers survive intermediaries.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.WriteJSON(hub.Event{Event: hub.EventPing}); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("Websocket error for %q: %v", username, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == hub.EventPing {
			if err := client.WriteJSON(hub.Event{Event: hub.EventPong}); err != nil {
				return
			}
		}
	}
}
