package chatbot

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already restricts browsers
	},
}

// ServeWs handles GET /ws/chat: upgrades the connection and runs one chat session on it.
func ServeWs(matcher *Matcher, typingDelay time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		send := make(chan WSMessage, 64)
		session := NewSession(ctx, matcher, typingDelay, send)

		go writePump(ctx, cancel, conn, send)
		session.Open()
		readPump(conn, session)
		cancel()
		logger.Debug("chat session closed", zap.Int("messages", len(session.Messages())))
	}
}

func readPump(conn *websocket.Conn, session *Session) {
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(8192)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		session.Handle(msg)
	}
}

// writePump ends the session when a write fails so nothing blocks on send.
func writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, send <-chan WSMessage) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		cancel()
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
