// Package ws serves router turns over WebSocket connections.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/service"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/transport/http/authn"
)

// Chatter runs router turns.
type Chatter interface {
	Chat(ctx context.Context, id domain.Identity, req domain.ChatRequest) (*domain.ChatResponse, error)
}

// Options tune connection handling.
type Options struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultOptions returns the connection defaults.
func DefaultOptions() Options {
	return Options{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Server handles WebSocket connections.
type Server struct {
	chat     Chatter
	opts     Options
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(chat Chatter, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		chat:   chat,
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// connection is one authenticated client.
type connection struct {
	id       string
	identity domain.Identity
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
}

func (c *connection) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// HandleWebSocket upgrades an authenticated request and serves it until the
// client goes away.
func (s *Server) HandleWebSocket(c echo.Context) error {
	id, ok := authn.Identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Warn("failed to upgrade websocket", zap.Error(err))
		return err
	}
	ws.SetReadLimit(s.opts.MaxMessageSize)

	conn := &connection{
		id:       "conn_" + uuid.New().String()[:8],
		identity: id,
		conn:     ws,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	s.logger.Debug("websocket connected", zap.String("conn_id", conn.id), zap.String("subject_id", id.SubjectID))

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump reads client messages and runs one turn per chat message, in order.
func (s *Server) readPump(conn *connection) {
	defer conn.close()

	conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	conn.conn.SetPongHandler(func(string) error {
		conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed", zap.String("conn_id", conn.id), zap.Error(err))
			}
			return
		}
		conn.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))

		s.handleMessage(conn, message)
	}
}

// writePump writes queued messages and keeps the connection alive.
func (s *Server) writePump(conn *connection) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.close()
	}()

	for {
		select {
		case <-conn.done:
			return

		case message := <-conn.send:
			conn.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("websocket write failed", zap.String("conn_id", conn.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			if err := conn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(conn *connection, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch base.Type {
	case TypeChat:
		s.handleChat(conn, data)
	default:
		s.sendError(conn, base.RequestID, ErrorCodeInvalidMessage, "unknown message type: "+base.Type)
	}
}

func (s *Server) handleChat(conn *connection, data []byte) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "", ErrorCodeInvalidMessage, "invalid chat message")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-conn.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	resp, err := s.chat.Chat(ctx, conn.identity, domain.ChatRequest{Prompt: msg.Prompt, SessionID: msg.SessionID})
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		s.sendError(conn, msg.RequestID, ErrorCodeInvalidMessage, err.Error())
	case errors.Is(err, service.ErrNotFound):
		s.sendError(conn, msg.RequestID, ErrorCodeNotFound, "session not found")
	case err != nil:
		s.sendError(conn, msg.RequestID, ErrorCodeInternal, err.Error())
	default:
		s.send(conn, newReply(msg, resp, time.Now().UnixMilli()))
	}
}

func (s *Server) sendError(conn *connection, requestID, code, message string) {
	s.send(conn, ErrorMessage{
		BaseMessage: BaseMessage{Type: TypeError, Ts: time.Now().UnixMilli(), RequestID: requestID},
		Code:        code,
		Message:     message,
	})
}

func (s *Server) send(conn *connection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	select {
	case conn.send <- b:
	case <-conn.done:
	}
}
