package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"helptoheat/internal/audit"
	"helptoheat/internal/eligibility"
	eligibilityMetrics "helptoheat/internal/eligibility/metrics"
	feedbackService "helptoheat/internal/feedback/service"
	frontdoorHandler "helptoheat/internal/frontdoor/handler"
	frontdoorMetrics "helptoheat/internal/frontdoor/metrics"
	frontdoorService "helptoheat/internal/frontdoor/service"
	"helptoheat/internal/platform/config"
	"helptoheat/internal/platform/httpserver"
	"helptoheat/internal/platform/logger"
	"helptoheat/internal/platform/metrics"
	portalHandler "helptoheat/internal/portal/handler"
	portalService "helptoheat/internal/portal/service"
	ratelimitMetrics "helptoheat/internal/ratelimit/metrics"
	ratelimitMiddleware "helptoheat/internal/ratelimit/middleware"
	ratelimitModels "helptoheat/internal/ratelimit/models"
	ratelimitStore "helptoheat/internal/ratelimit/store"
	referralMetrics "helptoheat/internal/referral/metrics"
	referralService "helptoheat/internal/referral/service"
	sessionService "helptoheat/internal/session/service"
	"helptoheat/internal/supplier/seed"
	supplierService "helptoheat/internal/supplier/service"
	"helptoheat/pkg/platform/httputil"
	"helptoheat/pkg/platform/middleware/admin"
	"helptoheat/pkg/platform/middleware/metadata"
	"helptoheat/pkg/platform/middleware/requesttime"
	"helptoheat/pkg/requestcontext"
)

const auditQueueSize = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	a, err := newApp(ctx, cfg, log, infra)
	if err != nil {
		return err
	}
	srv := httpserver.New(cfg.Addr, a.router, httpserver.WithWriteTimeout(cfg.WriteTimeout))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return audit.NewWorker(a.auditStore, a.auditQueue, log).Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting helptoheat", "addr", cfg.Addr, "answer_store", cfg.AnswerStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// In-flight requests are done; the worker drains what they queued.
		a.auditPublisher.Close()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// app is the wired HTTP surface plus the audit queue its worker drains.
type app struct {
	router         http.Handler
	auditStore     audit.Store
	auditQueue     chan audit.Event
	auditPublisher *audit.Publisher
}

func newApp(ctx context.Context, cfg config.Server, log *slog.Logger, infra *infra) (*app, error) {
	st, err := buildStores(cfg, infra)
	if err != nil {
		return nil, err
	}

	auditQueue := make(chan audit.Event, auditQueueSize)
	auditPublisher := audit.NewPublisher(st.audit, audit.WithQueue(auditQueue), audit.WithLogger(log))

	suppliers := supplierService.New(st.suppliers, log)
	entries, err := seed.Load(cfg.SupplierSeed)
	if err != nil {
		return nil, err
	}
	if err := suppliers.Seed(ctx, entries); err != nil {
		return nil, err
	}

	sessions := sessionService.New(st.answers,
		sessionService.WithLogger(log),
		sessionService.WithAuditPublisher(auditPublisher),
	)

	referralOpts := []referralService.Option{
		referralService.WithLogger(log),
		referralService.WithAuditPublisher(auditPublisher),
		referralService.WithMetrics(referralMetrics.New()),
		referralService.WithDuplicateWindow(cfg.Referral.DuplicateWindow),
	}
	if infra.producer != nil {
		referralOpts = append(referralOpts, referralService.WithLeadPublisher(infra.producer))
	}
	referrals := referralService.New(st.referrals, sessions, suppliers, referralOpts...)

	frontdoor := frontdoorService.New(sessions, referrals, suppliers,
		eligibility.NewService(eligibilityMetrics.New()),
		frontdoorService.WithLogger(log),
		frontdoorService.WithMetrics(frontdoorMetrics.New()),
	)
	feedback := feedbackService.New(st.feedback, log)
	users := portalService.New(st.users, suppliers,
		portalService.WithLogger(log),
		portalService.WithAuditPublisher(auditPublisher),
	)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(metrics.New().Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthcheck", healthcheck(infra))

	limiter := newLimiter(cfg, infra, log)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit(ratelimitModels.ClassPublic))
		frontdoorHandler.New(frontdoor, feedback, log).Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminToken, log))
		r.Use(limiter.Limit(ratelimitModels.ClassPortal))
		portalHandler.New(suppliers, users, referrals, feedback, log).Register(r)
	})

	return &app{router: r, auditStore: st.audit, auditQueue: auditQueue, auditPublisher: auditPublisher}, nil
}

// newLimiter counts in Redis when it is configured so every instance shares
// one budget, with an in-process fallback while Redis is failing.
func newLimiter(cfg config.Server, infra *infra, log *slog.Logger) *ratelimitMiddleware.Middleware {
	limits := map[ratelimitModels.EndpointClass]ratelimitModels.Limit{
		ratelimitModels.ClassPublic: {Requests: cfg.RateLimit.PublicRequests, Window: cfg.RateLimit.Window},
		ratelimitModels.ClassPortal: {Requests: cfg.RateLimit.PortalRequests, Window: cfg.RateLimit.Window},
	}
	opts := []ratelimitMiddleware.Option{
		ratelimitMiddleware.WithMetrics(ratelimitMetrics.New()),
		ratelimitMiddleware.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitMiddleware.WithProbeInterval(cfg.RateLimit.ProbeInterval),
	}
	if infra.redis == nil {
		return ratelimitMiddleware.New(ratelimitStore.NewInMemory(), limits, log, opts...)
	}
	opts = append(opts, ratelimitMiddleware.WithFallback(ratelimitStore.NewInMemory()))
	return ratelimitMiddleware.New(ratelimitStore.NewRedis(infra.redis.Client), limits, log, opts...)
}

func healthcheck(infra *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := infra.Health(ctx); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"healthy":  false,
				"datetime": requestcontext.Now(ctx).UTC().Format(time.RFC3339),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"healthy":  true,
			"datetime": requestcontext.Now(ctx).UTC().Format(time.RFC3339),
		})
	}
}
