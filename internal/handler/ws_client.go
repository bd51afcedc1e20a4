// internal/handler/ws_client.go
package handler

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// client is one WebSocket connection. It is the Publisher of its session.
type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	handler *WSHandler

	// session is set once, before ready is closed.
	session *service.Session
	ready   chan struct{}

	closed    chan struct{}
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, h *WSHandler) *client {
	return &client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, h.sendBuffer),
		handler: h,
		ready:   make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// start attaches the session and queues the prices message ahead of any
// update the session may publish. Inbound messages are held until then.
func (c *client) start(s *service.Session, prices models.PricesPayload) {
	c.session = s
	c.SendJSON(&models.WSResponse{Type: models.MessagePrices, Data: prices})
	close(c.ready)
}

// awaitSession blocks until start has run. It returns nil if the
// connection closes first.
func (c *client) awaitSession() *service.Session {
	select {
	case <-c.ready:
		return c.session
	case <-c.closed:
		return nil
	}
}

// Publish implements service.Publisher.
func (c *client) Publish(update models.Update) {
	c.SendJSON(&models.WSResponse{Type: models.MessageUpdate, Data: update})
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *client) readPump() {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.handler.logger.Warn("websocket read error",
					zap.String("client_id", c.id),
					zap.Error(err))
			}
			return
		}

		c.handler.handleMessage(c, message)
	}
}

// writePump pumps messages from the send buffer to the WebSocket connection
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// SendJSON queues a message without blocking. A full buffer drops it.
func (c *client) SendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.handler.logger.Error("failed to marshal websocket message",
			zap.String("client_id", c.id),
			zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.handler.metrics.WSDroppedUpdates.Inc()
		c.handler.logger.Warn("client send buffer full",
			zap.String("client_id", c.id))
	}
}

func (c *client) SendError(message string) {
	c.SendJSON(&models.WSResponse{
		Type:  models.MessageError,
		Error: message,
	})
}
