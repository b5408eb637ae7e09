package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/hotpot/internal/domain/cart"
	"github.com/xenking/hotpot/internal/domain/menu"
)

// Sentinel errors for checkout.
var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrCodeCollision = errors.New("could not issue an unused order code")
)

// ItemNotFoundError indicates a requested menu item does not exist.
type ItemNotFoundError struct {
	ItemID int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %d not found", e.ItemID)
}

// MaxLineQuantity is the largest quantity a single cart line may hold after
// repeated item IDs are merged.
const MaxLineQuantity = 999

// InvalidQuantityError indicates a line was requested with a quantity outside
// 1..MaxLineQuantity.
type InvalidQuantityError struct {
	ItemID int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be between 1 and %d for menu item %d", MaxLineQuantity, e.ItemID)
}

// LineRequest asks for quantity units of one menu item.
type LineRequest struct {
	ItemID   int
	Quantity int
}

// Service places orders: it turns carts into persisted, coded orders.
type Service struct {
	menu   menu.Repository
	store  *Store
	codes  func() string
	now    func() time.Time
	unique int

	tracer  trace.Tracer
	placed  metric.Int64Counter
	revenue metric.Int64Counter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		s.codes = fn
	}
}

// WithClock replaces time.Now for order timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithUniqueCodes makes checkout regenerate the code, up to attempts times,
// while it matches an already stored order. The check and the append are not
// atomic; it narrows collisions, it does not rule them out.
func WithUniqueCodes(attempts int) ServiceOption {
	return func(s *Service) {
		s.unique = attempts
	}
}

// WithTelemetry records spans and order metrics with the given providers.
func WithTelemetry(mp metric.MeterProvider, tp trace.TracerProvider) ServiceOption {
	return func(s *Service) {
		s.tracer = tp.Tracer("hotpot/order")
		meter := mp.Meter("hotpot/order")

		placed, err := meter.Int64Counter("hotpot.orders.placed",
			metric.WithDescription("Number of placed orders"),
		)
		if err != nil {
			placed = metricnoop.Int64Counter{}
		}
		revenue, err := meter.Int64Counter("hotpot.orders.revenue",
			metric.WithDescription("Sum of placed order totals"),
			metric.WithUnit("NGN"),
		)
		if err != nil {
			revenue = metricnoop.Int64Counter{}
		}
		s.placed, s.revenue = placed, revenue
	}
}

// NewService creates an order Service over the menu and the order store.
func NewService(items menu.Repository, store *Store, opts ...ServiceOption) *Service {
	s := &Service{
		menu:  items,
		store: store,
		codes: GenerateCode,
		now:   time.Now,
	}
	WithTelemetry(metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildCart validates the requested lines against the menu and aggregates
// them into a cart. Repeated item IDs are merged; the merged quantity must
// not exceed MaxLineQuantity.
func (s *Service) BuildCart(ctx context.Context, lines []LineRequest) (cart.Cart, error) {
	if len(lines) == 0 {
		return cart.Cart{}, ErrEmptyCart
	}
	c := cart.New()
	for _, l := range lines {
		if l.Quantity <= 0 || l.Quantity > MaxLineQuantity {
			return cart.Cart{}, &InvalidQuantityError{ItemID: l.ItemID}
		}
		item, err := s.menu.GetByID(ctx, l.ItemID)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				return cart.Cart{}, &ItemNotFoundError{ItemID: l.ItemID}
			}
			return cart.Cart{}, errors.Wrap(err, "get menu item")
		}
		quantity := l.Quantity
		if existing, ok := c.Line(item.ID); ok {
			quantity += existing.Quantity
			if quantity > MaxLineQuantity {
				return cart.Cart{}, &InvalidQuantityError{ItemID: l.ItemID}
			}
		}
		c = c.Add(*item).UpdateQuantity(item.ID, quantity)
	}
	return c, nil
}

// Checkout builds a cart from lines and places it.
func (s *Service) Checkout(ctx context.Context, lines []LineRequest) (*Order, error) {
	c, err := s.BuildCart(ctx, lines)
	if err != nil {
		return nil, err
	}
	return s.PlaceOrder(ctx, c)
}

// PlaceOrder snapshots c under a fresh code and appends it to the store.
// The caller's cart is not modified; clearing it is up to the caller.
func (s *Service) PlaceOrder(ctx context.Context, c cart.Cart) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.PlaceOrder")
	defer span.End()

	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	code, err := s.issueCode(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue code")
		return nil, err
	}

	o := Order{
		Code:      code,
		Items:     c.Lines(),
		Total:     c.Total(),
		Timestamp: FormatTimestamp(s.now()),
	}
	if err := s.store.Append(ctx, o); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "append order")
		return nil, errors.Wrap(err, "append order")
	}

	span.SetAttributes(
		attribute.String("order.code", o.Code),
		attribute.Int64("order.total", o.Total),
	)
	s.placed.Add(ctx, 1)
	s.revenue.Add(ctx, o.Total)
	zctx.From(ctx).Info("Order placed",
		zap.String("code", o.Code),
		zap.Int64("total", o.Total),
		zap.Int("lines", len(o.Items)),
	)
	return &o, nil
}

func (s *Service) issueCode(ctx context.Context) (string, error) {
	if s.unique <= 0 {
		return s.codes(), nil
	}

	orders, err := s.store.All(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list orders")
	}
	used := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		used[strings.ToUpper(o.Code)] = struct{}{}
	}
	for range s.unique {
		code := s.codes()
		if _, taken := used[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeCollision
}
