package order

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/hotpot/internal/domain/cart"
	"github.com/xenking/hotpot/internal/domain/menu"
)

// --- Mock implementations ---

type fakeBackend struct {
	mu       sync.Mutex
	data     []byte
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeBackend) Read(_ context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.data == nil {
		return nil, nil
	}
	return append([]byte(nil), f.data...), nil
}

func (f *fakeBackend) Write(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data = append([]byte(nil), data...)
	f.writes++
	return nil
}

// updatingBackend additionally implements Updater.
type updatingBackend struct {
	fakeBackend
	updates int
}

func (u *updatingBackend) Update(ctx context.Context, fn func([]byte) ([]byte, error)) error {
	u.updates++
	cur, err := u.Read(ctx)
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return u.Write(ctx, next)
}

type pingBackend struct {
	fakeBackend
	err error
}

func (p *pingBackend) Ping(context.Context) error { return p.err }

type fakeMenu struct {
	byID map[int]menu.Item
	err  error
}

func (m *fakeMenu) List(context.Context) ([]menu.Item, error) { return nil, nil }

func (m *fakeMenu) ListByCategory(context.Context, menu.Category) ([]menu.Item, error) {
	return nil, nil
}

func (m *fakeMenu) GetByID(_ context.Context, id int) (*menu.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	it, ok := m.byID[id]
	if !ok {
		return nil, menu.ErrNotFound
	}
	return &it, nil
}

// --- Helpers ---

var errBoom = errors.New("backend unavailable")

func newFakeMenu(items ...menu.Item) *fakeMenu {
	m := &fakeMenu{byID: make(map[int]menu.Item, len(items))}
	for _, it := range items {
		m.byID[it.ID] = it
	}
	return m
}

func testOrder(code string, total int64) Order {
	return Order{
		Code: code,
		Items: []cart.Line{
			{ID: 1, Name: "Egusi Soup", Price: "₦3,500", Quantity: 2},
			{ID: 2, Name: "Jollof Rice", Price: "₦2,500", Quantity: 1},
		},
		Total:     total,
		Timestamp: "2025-06-15T12:00:00.000Z",
	}
}
