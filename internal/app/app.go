package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/hotpot/internal/domain/menu"
	"github.com/xenking/hotpot/internal/domain/order"
	"github.com/xenking/hotpot/internal/domain/shop"
	"github.com/xenking/hotpot/internal/handler"
	"github.com/xenking/hotpot/pkg/health"
	"github.com/xenking/hotpot/pkg/httpmiddleware"
)

// Services are the domain dependencies shared by the server and the CLI.
type Services struct {
	Menu   menu.Repository
	Store  *order.Store
	Orders *order.Service
	Lookup *order.Lookup
}

// NewServices opens storage and builds the domain services. The returned
// close function releases storage and is never nil.
func NewServices(ctx context.Context, lg *zap.Logger, cfg *Config, mp metric.MeterProvider, tp trace.TracerProvider) (*Services, func(), error) {
	items, err := loadMenu(cfg.Menu)
	if err != nil {
		return nil, func() {}, err
	}

	backend, closeBackend, err := OpenBackend(ctx, lg, cfg.Storage)
	if err != nil {
		return nil, closeBackend, err
	}
	store := order.NewStore(backend)

	return &Services{
		Menu:  items,
		Store: store,
		Orders: order.NewService(items, store,
			order.WithUniqueCodes(cfg.Orders.UniqueCodes),
			order.WithTelemetry(mp, tp),
		),
		Lookup: order.NewLookup(store, order.WithDelay(cfg.Orders.LookupDelay)),
	}, closeBackend, nil
}

func loadMenu(cfg MenuConfig) (*menu.StaticRepository, error) {
	if cfg.File == "" {
		return menu.NewStaticRepository(menu.Default)
	}
	items, err := menu.LoadFile(cfg.File)
	if err != nil {
		return nil, errors.Wrap(err, "load menu")
	}
	return items, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage.Driver),
	)

	svc, closeStorage, err := NewServices(ctx, lg, cfg, m.MeterProvider(), m.TracerProvider())
	defer closeStorage()
	if err != nil {
		return errors.Wrap(err, "init services")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("storage", 5*time.Second, health.PingCheck(svc.Store))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()
	healthSvc.SetReady(true)

	h := handler.New(handler.Config{
		ShopName: cfg.Shop.Name,
		WhatsApp: cfg.Shop.WhatsApp,
		Delivery: shop.DeliveryPolicy{FreeMinimum: cfg.Shop.FreeDeliveryMinimum},
	}, svc.Menu, svc.Orders, svc.Lookup)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)
	routes := httpmiddleware.MuxRoutes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", httpmiddleware.RequestIDHeader},
				ExposeHeaders:    []string{httpmiddleware.RequestIDHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.Instrument("hotpot-api", routes, m.MeterProvider(), m.TracerProvider()),
			httpmiddleware.LogRequests(routes),
			httpmiddleware.Recovery(),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		// Fail readiness first so load balancers stop routing here.
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}
