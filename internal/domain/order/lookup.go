package order

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Reader lists stored orders.
type Reader interface {
	All(ctx context.Context) ([]Order, error)
}

// Lookup finds placed orders by code.
type Lookup struct {
	orders Reader
	delay  time.Duration
}

// LookupOption configures a Lookup.
type LookupOption func(*Lookup)

// WithDelay pauses every search for d before scanning. The pause is purely
// cosmetic and is cut short when the context is cancelled.
func WithDelay(d time.Duration) LookupOption {
	return func(l *Lookup) {
		l.delay = d
	}
}

// NewLookup returns a Lookup over orders.
func NewLookup(orders Reader, opts ...LookupOption) *Lookup {
	l := &Lookup{orders: orders}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NormalizeCode trims surrounding whitespace and upper-cases code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindByCode returns the first stored order whose code equals code, ignoring
// case. A miss reports found == false with a nil error.
func (l *Lookup) FindByCode(ctx context.Context, code string) (o Order, found bool, err error) {
	needle := NormalizeCode(code)
	if needle == "" {
		return Order{}, false, nil
	}

	if l.delay > 0 {
		t := time.NewTimer(l.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return Order{}, false, ctx.Err()
		case <-t.C:
		}
	}

	orders, err := l.orders.All(ctx)
	if err != nil {
		return Order{}, false, errors.Wrap(err, "list orders")
	}
	for _, o := range orders {
		if strings.ToUpper(o.Code) == needle {
			return o, true, nil
		}
	}
	return Order{}, false, nil
}
