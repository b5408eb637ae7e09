// Package handler serves the storefront HTTP API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/hotpot/internal/domain/menu"
	"github.com/xenking/hotpot/internal/domain/order"
	"github.com/xenking/hotpot/internal/domain/shop"
)

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20

// OrderService places orders from requested lines.
type OrderService interface {
	Checkout(ctx context.Context, lines []order.LineRequest) (*order.Order, error)
}

// OrderFinder finds placed orders by code.
type OrderFinder interface {
	FindByCode(ctx context.Context, code string) (order.Order, bool, error)
}

// Config holds non-dependency settings of the Handler.
type Config struct {
	// ShopName appears in the order message.
	ShopName string
	// WhatsApp is the number orders are sent to.
	WhatsApp string
	Delivery shop.DeliveryPolicy
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler serves the /api routes.
type Handler struct {
	menu   menu.Repository
	orders OrderService
	lookup OrderFinder
	cfg    Config
}

// New constructs a Handler.
func New(cfg Config, items menu.Repository, orders OrderService, lookup OrderFinder) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		menu:   items,
		orders: orders,
		lookup: lookup,
		cfg:    cfg,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu", h.ListMenu)
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders/{code}", h.GetOrder)
	mux.HandleFunc("GET /api/shop/status", h.ShopStatus)
	mux.HandleFunc("GET /api/shop/delivery-fee", h.DeliveryFee)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, &e)
}

// internalError logs err and answers 500 without leaking details.
func internalError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	zctx.From(ctx).Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
