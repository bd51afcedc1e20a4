// internal/handler/ws_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vanhieuhoaiphu/currency-converter/internal/metrics"
	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
	"github.com/vanhieuhoaiphu/currency-converter/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler serves one converter session per WebSocket connection.
type WSHandler struct {
	service    *service.ExchangeService
	metrics    *metrics.ConverterMetrics
	logger     *zap.Logger
	sendBuffer int
}

func NewWSHandler(service *service.ExchangeService, m *metrics.ConverterMetrics, sendBuffer int, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service:    service,
		metrics:    m,
		logger:     logger,
		sendBuffer: sendBuffer,
	}
}

// HandleConnection upgrades the request and runs the session until the
// client goes away or the service shuts down. The session is opened once
// the price list has finished loading, so its selection starts from the
// loaded defaults. Messages received before that are held, not dropped.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection", zap.Error(err))
		return
	}

	client := newClient(uuid.NewString(), conn, h)
	go client.writePump()

	store := h.service.Store()
	if store.Loading() {
		client.SendJSON(&models.WSResponse{Type: models.MessageLoading})
	}
	go client.readPump()

	select {
	case <-store.Done():
	case <-client.closed:
		return
	case <-h.service.Closing():
		client.close()
		return
	}

	sess := h.service.OpenSession(client)
	defer h.service.CloseSession(sess.ID())

	client.start(sess, models.PricesPayload{
		Prices:   store.Entries(),
		Defaults: store.Defaults(),
		Update:   sess.Last(),
	})

	h.logger.Info("converter session started",
		zap.String("client_id", client.id),
		zap.String("session_id", sess.ID()))

	select {
	case <-client.closed:
	case <-h.service.Closing():
		client.close()
	}

	h.logger.Info("converter session ended",
		zap.String("client_id", client.id),
		zap.String("session_id", sess.ID()))
}

func (h *WSHandler) handleMessage(c *client, raw []byte) {
	sess := c.awaitSession()
	if sess == nil {
		return
	}

	var msg models.WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.metrics.WSMessagesTotal.WithLabelValues("invalid").Inc()
		c.SendError("invalid message format")
		return
	}

	switch msg.Type {
	case models.MessageSelectBase, models.MessageSelectTarget, models.MessageAmount:
		h.metrics.WSMessagesTotal.WithLabelValues(msg.Type).Inc()
	default:
		h.metrics.WSMessagesTotal.WithLabelValues("unknown").Inc()
		c.SendError("unknown message type: " + msg.Type)
		return
	}

	switch msg.Type {
	case models.MessageSelectBase, models.MessageSelectTarget:
		var payload models.SelectPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.SendError("invalid price selection")
			return
		}
		if msg.Type == models.MessageSelectBase {
			sess.SelectBase(payload.Price)
		} else {
			sess.SelectTarget(payload.Price)
		}

	case models.MessageAmount:
		var payload models.AmountPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.SendError("invalid amount")
			return
		}
		sess.InputAmount(string(payload.Value))
	}
}
