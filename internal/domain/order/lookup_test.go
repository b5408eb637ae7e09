package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, orders ...Order) *Store {
	t.Helper()
	s := NewStore(&fakeBackend{})
	require.NoError(t, s.Append(context.Background(), orders...))
	return s
}

func TestFindByCode(t *testing.T) {
	a := testOrder("THP-AAAA-111", 9500)
	b := testOrder("THP-BBBB-222", 3000)
	l := NewLookup(seededStore(t, a, b))

	got, found, err := l.FindByCode(context.Background(), "THP-BBBB-222")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, b, got)
}

func TestFindByCode_CaseInsensitive(t *testing.T) {
	o := testOrder("THP-AB12-XY9", 9500)
	l := NewLookup(seededStore(t, o))

	got, found, err := l.FindByCode(context.Background(), "thp-ab12-xy9")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, o.Code, got.Code)

	_, found, err = l.FindByCode(context.Background(), "  thp-AB12-xy9 \n")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFindByCode_LowercaseStoredCode(t *testing.T) {
	l := NewLookup(seededStore(t, testOrder("thp-low1-abc", 1)))

	_, found, err := l.FindByCode(context.Background(), "THP-LOW1-ABC")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFindByCode_FirstMatchWins(t *testing.T) {
	first := testOrder("THP-DUPE-000", 1)
	second := testOrder("THP-DUPE-000", 2)
	l := NewLookup(seededStore(t, first, second))

	got, found, err := l.FindByCode(context.Background(), "THP-DUPE-000")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), got.Total)
}

func TestFindByCode_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		store *Store
		code  string
	}{
		{name: "empty store", store: NewStore(&fakeBackend{}), code: "THP-AAAA-111"},
		{name: "no match", store: seededStore(t, testOrder("THP-AAAA-111", 1)), code: "THP-ZZZZ-999"},
		{name: "blank input", store: seededStore(t, testOrder("THP-AAAA-111", 1)), code: "   "},
		{name: "corrupt store", store: NewStore(&fakeBackend{data: []byte("oops")}), code: "THP-AAAA-111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := NewLookup(tt.store).FindByCode(context.Background(), tt.code)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Zero(t, got)
		})
	}
}

func TestFindByCode_BackendError(t *testing.T) {
	l := NewLookup(NewStore(&fakeBackend{readErr: errBoom}))

	_, found, err := l.FindByCode(context.Background(), "THP-AAAA-111")
	require.ErrorIs(t, err, errBoom)
	assert.False(t, found)
}

func TestFindByCode_DelayHonorsCancellation(t *testing.T) {
	l := NewLookup(seededStore(t, testOrder("THP-AAAA-111", 1)), WithDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, found, err := l.FindByCode(ctx, "THP-AAAA-111")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
}

func TestFindByCode_WithDelay(t *testing.T) {
	l := NewLookup(seededStore(t, testOrder("THP-AAAA-111", 1)), WithDelay(10*time.Millisecond))

	start := time.Now()
	_, found, err := l.FindByCode(context.Background(), "THP-AAAA-111")
	require.NoError(t, err)
	assert.True(t, found)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "THP-AB12-XY9", NormalizeCode(" thp-ab12-xy9\t"))
	assert.Equal(t, "", NormalizeCode("  "))
}
