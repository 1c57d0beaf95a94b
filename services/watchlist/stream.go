package watchlist

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket settings
const (
	MaxStreamClients      = 100
	WebSocketWriteTimeout = 10 * time.Second
	WebSocketPongTimeout  = 60 * time.Second
	WebSocketPingInterval = 30 * time.Second
	DefaultStreamInterval = 5 * time.Second
)

// StreamMessage is one frame pushed to the client
type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
	Time string `json:"time"`
}

// Streamer pushes a user's watchlist snapshots over a websocket
type Streamer struct {
	service  *Service
	interval time.Duration
	upgrader websocket.Upgrader
	clients  atomic.Int32
}

// NewStreamer creates a streamer polling at interval
func NewStreamer(service *Service, interval time.Duration) *Streamer {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &Streamer{
		service:  service,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ClientCount returns the number of open streams
func (s *Streamer) ClientCount() int {
	return int(s.clients.Load())
}

// Serve upgrades the request and streams until the client goes away
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	if s.clients.Load() >= MaxStreamClients {
		http.Error(w, "too many stream clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}
	s.clients.Add(1)
	defer func() {
		s.clients.Add(-1)
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.readPump(conn, cancel)

	log.Printf("[INFO] watchlist stream opened for user %s", userID)
	s.writePump(ctx, conn, userID)
	log.Printf("[INFO] watchlist stream closed for user %s", userID)
}

// readPump discards client frames and cancels ctx when the peer disconnects
func (s *Streamer) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(WebSocketPongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(WebSocketPongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] websocket read error: %v", err)
			}
			return
		}
	}
}

func (s *Streamer) writePump(ctx context.Context, conn *websocket.Conn, userID string) {
	poll := time.NewTicker(s.interval)
	ping := time.NewTicker(WebSocketPingInterval)
	defer func() {
		poll.Stop()
		ping.Stop()
	}()

	if !s.push(ctx, conn, userID) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-poll.C:
			if !s.push(ctx, conn, userID) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Streamer) push(ctx context.Context, conn *websocket.Conn, userID string) bool {
	msg := StreamMessage{Time: time.Now().Format(time.RFC3339)}

	snapshots, err := s.service.Get(ctx, userID)
	if err != nil {
		log.Printf("[ERROR] watchlist stream for %s: %v", userID, err)
		msg.Type = "error"
		msg.Data = "failed to load watchlist"
	} else {
		msg.Type = "watchlist"
		msg.Data = snapshots
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ERROR] failed to encode stream message: %v", err)
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(WebSocketWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return false
	}
	return true
}
