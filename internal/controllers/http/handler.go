package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"
	"voice-order-service/internal/metrics"
	"voice-order-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, c services.Checkout) (*domain.Order, error)
	GetOrder(ctx context.Context, shortID string) (*domain.Order, error)
	ListOrders(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, shortID string, status domain.OrderStatus) (*domain.Order, error)
}

type Handler struct {
	engine  *dialogue.Engine
	service OrderService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewHandler(engine *dialogue.Engine, s OrderService, mt *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, service: s, metrics: mt, logger: logger}
}

// NewRouter builds the gin engine with CORS, panic recovery and all routes.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(recovery(h.logger))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/voice-order", h.VoiceOrder)
	api.GET("/menu", h.Menu)
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.PUT("/orders/:id/status", h.UpdateStatus)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) VoiceOrder(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	start := time.Now()
	res := h.engine.Turn(c.Request.Context(), req.Transcript, req.CurrentOrder, dialogue.Step(req.ConfirmationStep))
	h.metrics.ObserveTurn("http", res.Step.String(), len(res.Unrecognized), time.Since(start))

	h.logger.Debug("turn handled",
		zap.String("rule", res.Rule),
		zap.Stringer("step", res.Step),
		zap.Bool("confirmed", res.OrderConfirmed),
	)

	c.JSON(http.StatusOK, TurnResponse{
		Success:          true,
		Response:         res.Reply,
		OrderDetails:     res.State,
		ConfirmationStep: int(res.Step),
		OrderConfirmed:   res.OrderConfirmed,
		InvalidItems:     res.Unrecognized,
	})
}

func (h *Handler) Menu(c *gin.Context) {
	m := h.engine.Menu()
	items := make([]MenuItemResponse, 0, len(m.Entries()))
	for _, e := range m.Entries() {
		items = append(items, MenuItemResponse{
			Name:       e.Name,
			Price:      e.Price.String(),
			PriceCents: int64(e.Price),
			Aliases:    e.Aliases,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "listing": m.Listing()})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	checkout := services.Checkout{
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		DeliveryType: req.DeliveryType,
		Address:      req.Address,
		DeliveryTime: req.DeliveryTime,
	}
	for _, it := range req.Items {
		checkout.Items = append(checkout.Items, services.CheckoutItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Special:  it.Special,
		})
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), checkout)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{Success: true, OrderID: order.ShortID, Order: order})
}

func (h *Handler) ListOrders(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	orders, err := h.service.ListOrders(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
