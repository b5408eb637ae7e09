package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type body struct {
	Status string
	Checks map[string]string
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) body {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	b := body{Checks: map[string]string{}}
	err := jx.DecodeBytes(w.Body.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "status":
			s, err := d.Str()
			b.Status = s
			return err
		case "checks":
			return d.Obj(func(d *jx.Decoder, name string) error {
				msg, err := d.Str()
				b.Checks[name] = msg
				return err
			})
		default:
			return d.Skip()
		}
	})
	require.NoError(t, err)
	return b
}

func passing(context.Context) error { return nil }

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func serve(fn http.HandlerFunc, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	fn(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLiveEndpoint(t *testing.T) {
	t.Run("NoChecks", func(t *testing.T) {
		h := New()
		w := serve(h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decodeBody(t, w).Status)
	})
	t.Run("BelowThreshold", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("flaky", time.Second, failing("temporary"))
		for range failureThreshold - 1 {
			h.liveness[0].run(context.Background())
		}
		assert.Equal(t, http.StatusOK, serve(h.LiveEndpoint, "/livez").Code)
	})
	t.Run("Failing", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("db", time.Second, failing("connection refused"))
		for range failureThreshold {
			h.liveness[0].run(context.Background())
		}

		w := serve(h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		b := decodeBody(t, w)
		assert.Equal(t, "unhealthy", b.Status)
		assert.Equal(t, "connection refused", b.Checks["db"])
	})
}

func TestReadyEndpoint(t *testing.T) {
	h := New()
	h.AddReadinessCheck("store", time.Second, passing)
	h.AddReadinessCheck("cache", time.Second, failing("cache miss"))

	w := serve(h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, decodeBody(t, w).Checks, "_readiness")

	h.SetReady(true)
	assert.Equal(t, http.StatusOK, serve(h.ReadyEndpoint, "/readyz").Code)
	assert.True(t, h.IsReady())

	for range failureThreshold {
		h.readiness[1].run(context.Background())
	}
	w = serve(h.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	b := decodeBody(t, w)
	assert.Equal(t, "cache miss", b.Checks["cache"])
	assert.NotContains(t, b.Checks, "store")
	assert.NotContains(t, b.Checks, "_readiness")
	assert.False(t, h.IsReady())
}

func TestCheck_Recovers(t *testing.T) {
	down := true
	c := newCheck("flaky", time.Second, func(context.Context) error {
		if down {
			return errors.New("down")
		}
		return nil
	})
	assert.NoError(t, c.err())

	for range failureThreshold {
		c.run(context.Background())
	}
	assert.False(t, c.healthy.Load())
	assert.EqualError(t, c.err(), "down")

	down = false
	c.run(context.Background())
	assert.True(t, c.healthy.Load())
	assert.NoError(t, c.err())
}

func TestStartStop(t *testing.T) {
	h := New()
	h.AddLivenessCheck("live", time.Second, failing("err"))
	h.AddReadinessCheck("ready", time.Second, passing)
	h.SetReady(true)

	h.Start(context.Background(), 5*time.Millisecond)
	h.Start(context.Background(), 5*time.Millisecond)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				h.IsReady()
				serve(h.LiveEndpoint, "/livez")
				serve(h.ReadyEndpoint, "/readyz")
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return serve(h.LiveEndpoint, "/livez").Code == http.StatusServiceUnavailable
	}, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	assert.ErrorContains(t, GoroutineCountCheck(0)(context.Background()), "exceeds threshold")
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPingCheck(t *testing.T) {
	assert.NoError(t, PingCheck(pingerFunc(passing))(context.Background()))

	err := PingCheck(pingerFunc(failing("no route")))(context.Background())
	assert.ErrorContains(t, err, "ping: no route")
}
