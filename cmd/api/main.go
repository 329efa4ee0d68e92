package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/httpapi"
	memidempotency "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/idempotency"
	memmessagerepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/messagerepo"
	memsessionstore "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/sessionstore"
	memtouristidrepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/touristidrepo"
	memtriprepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/triprepo"
	memuserrepo "github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/memory/userrepo"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/authz"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/messages"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/safety"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/sessions"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/touristids"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/trips"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/users"
	platformclock "github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/clock"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/config"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/credential"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/logging"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/platform/metrics"
	clockport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/clock"
	idempotencyport "github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/idempotency"
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	clk := platformclock.NewSystemClock()

	// All state is in memory and lives as long as the process.
	userRepo := memuserrepo.NewRepo()
	tripRepo := memtriprepo.NewRepo()
	messageRepo := memmessagerepo.NewRepo()
	idemStore := memidempotency.NewStore()

	registry := sessions.NewRegistry(memsessionstore.NewStore())
	touristSvc := touristids.NewService(memtouristidrepo.NewRepo(), clk)
	usersSvc := users.NewService(userRepo, credential.NewBcryptDigester(cfg.Auth.BcryptCost), registry, clk, touristSvc)
	tripsSvc := trips.NewService(tripRepo, usersSvc, clk)
	messagesSvc := messages.NewService(messageRepo, tripsSvc, usersSvc, clk)
	safetySvc := safety.NewService(usersSvc, tripsSvc, touristSvc, clk)
	gate := authz.NewGate(registry, tripsSvc)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	api := httpapi.NewServer(httpapi.Deps{
		Users:      usersSvc,
		Trips:      tripsSvc,
		Messages:   messagesSvc,
		TouristIDs: touristSvc,
		Safety:     safetySvc,
		Gate:       gate,
		Idem:       idemStore,
		Metrics:    m,
		Log:        log,
		Clock:      clk,
	})

	var limiter *httpapi.RateLimiter
	if cfg.Auth.RateLimit > 0 {
		limiter = httpapi.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.Burst)
	}
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		CORSOrigins: cfg.CORS.Origins,
		AuthLimiter: limiter,
		Metrics:     m,
		StaticDir:   cfg.Static.Dir,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pruneIdempotency(ctx, log, idemStore, clk, cfg.Idempotency.Retention, cfg.Idempotency.PruneInterval)

	go func() {
		log.Info("api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// pruneIdempotency drops replay records older than retention every interval until ctx ends.
func pruneIdempotency(ctx context.Context, log *slog.Logger, store idempotencyport.Store, clk clockport.Clock, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneBefore(ctx, clk.Now().Add(-retention))
			if err != nil {
				log.Warn("idempotency prune failed", "err", err)
				continue
			}
			if n > 0 {
				log.Debug("idempotency records pruned", "count", n)
			}
		}
	}
}
