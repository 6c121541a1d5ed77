package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/google/uuid"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Frames buffered per client before it is considered stuck.
	sendBuffer = 64
)

// Frame types sent to the browser.
const (
	framePush    = "push"
	frameReplace = "replace"
	frameRender  = "render"
	frameReload  = "reload"
	frameError   = "error"
)

// frame is a server-to-client message.
type frame struct {
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

var (
	errClientClosed = errors.New("client connection closed")
	errSendOverflow = errors.New("client send buffer full")
)

// Client is one websocket connection.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger logging.Logger
}

func newClient(conn *websocket.Conn, logger logging.Logger) *Client {
	id := uuid.NewString()

	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		logger: logger.With("session", id),
	}
}

// ID returns the session id.
func (c *Client) ID() string {
	return c.id
}

// enqueue queues f for writing. It never blocks: a closed or stuck client
// is reported as an error.
func (c *Client) enqueue(f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errClientClosed
	default:
		return errSendOverflow
	}
}

// close ends the connection. Safe to call more than once.
func (c *Client) close(status websocket.StatusCode, reason string) {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close(status, reason)
	})
}

// writePump writes queued frames and keeps the connection alive with
// pings until the client closes.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.close(websocket.StatusGoingAway, "server shutting down")

			return
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Warn(ctx, err, "WebSocket write failed")
				c.close(websocket.StatusInternalError, "write failed")

				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.close(websocket.StatusGoingAway, "ping failed")

				return
			}
		}
	}
}

// Hub tracks live clients for broadcasts.
type Hub struct {
	clients map[*Client]struct{}
	mutex   sync.RWMutex
	logger  logging.Logger
}

// NewHub creates an empty hub.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mutex.Unlock()

	h.logger.Debug(context.Background(), "Client connected", "session", c.id, "total", count)
}

func (h *Hub) unregister(c *Client) {
	h.mutex.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mutex.Unlock()

	h.logger.Debug(context.Background(), "Client disconnected", "session", c.id, "total", count)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// Broadcast sends f to every client. Clients that cannot keep up are
// disconnected.
func (h *Hub) Broadcast(ctx context.Context, f frame) {
	h.mutex.RLock()
	var failed []*Client
	for c := range h.clients {
		if err := c.enqueue(f); err != nil {
			failed = append(failed, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range failed {
		h.logger.Warn(ctx, errSendOverflow, "Dropping slow client", "session", c.id)
		c.close(websocket.StatusPolicyViolation, "too slow")
		h.unregister(c)
	}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mutex.Unlock()

	for c := range clients {
		c.close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)

		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Origin was checked above against the configured list.
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade failed")

		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := newClient(conn, s.logger)
	s.hub.register(client)
	defer s.hub.unregister(client)
	defer client.close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.writePump(ctx)

	sess := newSession(s, client)
	if err := sess.init(ctx, r.URL.Query().Get("path")); err != nil {
		s.logger.Warn(ctx, err, "Invalid session location", "session", client.id)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				client.logger.Debug(ctx, "WebSocket closed", "error", err.Error())
			}

			return
		}

		if err := sess.handle(ctx, data); err != nil {
			client.logger.Warn(ctx, err, "Session message rejected")
			_ = client.enqueue(frame{Type: frameError, Message: err.Error()})
		}
	}
}

// checkOrigin accepts requests from the server's own host and from the
// configured allowed origins. Requests without an Origin header are
// rejected.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}

	if originURL.Host == r.Host {
		return true
	}

	return s.isAllowedOrigin(origin)
}
