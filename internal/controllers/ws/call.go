package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4 * 1024
)

// Frame is what the server sends after every utterance. It has the same
// shape as the HTTP turn response.
type Frame struct {
	Success          bool                 `json:"success"`
	Response         string               `json:"response"`
	OrderDetails     *dialogue.OrderState `json:"orderDetails"`
	ConfirmationStep int                  `json:"confirmationStep"`
	OrderConfirmed   bool                 `json:"orderConfirmed"`
	InvalidItems     []string             `json:"invalidItems"`
}

type CallHandler struct {
	engine   *dialogue.Engine
	metrics  *metrics.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewCallHandler accepts browser upgrades only from allowedOrigins, the same
// list the HTTP API uses for CORS. "*" allows any origin.
func NewCallHandler(engine *dialogue.Engine, mt *metrics.Metrics, logger *zap.Logger, allowedOrigins []string) *CallHandler {
	return &CallHandler{
		engine:  engine,
		metrics: mt,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originAllowed(allowedOrigins),
		},
	}
}

func originAllowed(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// non-browser clients send no Origin
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(strings.TrimSuffix(a, "/"), origin) {
				return true
			}
		}
		return false
	}
}

func (h *CallHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/call", h.Call)
}

// callConn is one live call. Only the read loop touches state and step, so
// turns of a call are handled strictly one after another.
type callConn struct {
	h     *CallHandler
	conn  *websocket.Conn
	send  chan []byte
	state *dialogue.OrderState
	step  dialogue.Step
}

func (h *CallHandler) Call(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	cc := &callConn{
		h:    h,
		conn: conn,
		send: make(chan []byte, 16),
		step: dialogue.StepIdle,
	}

	go cc.writePump()
	cc.push(Frame{Success: true, Response: h.engine.Greeting(), InvalidItems: []string{}})
	cc.readPump(c.Request.Context())
}

func (c *callConn) readPump(ctx context.Context) {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.h.logger.Warn("websocket error", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		utterance := strings.TrimSpace(string(message))
		if utterance == "" {
			continue
		}
		c.handle(ctx, utterance)
	}
}

func (c *callConn) handle(ctx context.Context, utterance string) {
	start := time.Now()
	res := c.h.engine.Turn(ctx, utterance, c.state, c.step)
	c.h.metrics.ObserveTurn("ws", res.Step.String(), len(res.Unrecognized), time.Since(start))

	c.state, c.step = res.State, res.Step
	c.push(Frame{
		Success:          true,
		Response:         res.Reply,
		OrderDetails:     res.State,
		ConfirmationStep: int(res.Step),
		OrderConfirmed:   res.OrderConfirmed,
		InvalidItems:     res.Unrecognized,
	})
}

func (c *callConn) push(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		c.h.logger.Error("failed to encode frame", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.h.logger.Warn("websocket buffer full, dropping frame")
	}
}

func (c *callConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
