package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"helptoheat/internal/audit"
	feedbackService "helptoheat/internal/feedback/service"
	feedbackStore "helptoheat/internal/feedback/store"
	"helptoheat/internal/platform/config"
	"helptoheat/internal/platform/kafka"
	"helptoheat/internal/platform/postgres"
	platformRedis "helptoheat/internal/platform/redis"
	portalService "helptoheat/internal/portal/service"
	portalStore "helptoheat/internal/portal/store"
	referralService "helptoheat/internal/referral/service"
	referralStore "helptoheat/internal/referral/store"
	sessionService "helptoheat/internal/session/service"
	sessionStore "helptoheat/internal/session/store"
	supplierService "helptoheat/internal/supplier/service"
	supplierStore "helptoheat/internal/supplier/store"
)

// infra holds the external connections. Each field is nil when its backend
// is not configured.
type infra struct {
	db       *sql.DB
	redis    *platformRedis.Client
	producer *kafka.Producer
}

func openInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	i := &infra{}
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		i.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			i.Close()
			return nil, err
		}
		log.Info("postgres connected")
	}

	client, err := platformRedis.New(ctx, cfg.Redis)
	if err != nil {
		i.Close()
		return nil, err
	}
	i.redis = client

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		i.Close()
		return nil, err
	}
	i.producer = producer
	if producer != nil {
		log.Info("referral lead publishing enabled", "topic", cfg.Kafka.Topic)
	}
	return i, nil
}

func (i *infra) Health(ctx context.Context) error {
	if i.db != nil {
		if err := i.db.PingContext(ctx); err != nil {
			return err
		}
	}
	if i.redis != nil {
		return i.redis.Health(ctx)
	}
	return nil
}

func (i *infra) Close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

type stores struct {
	answers   sessionService.AnswerStore
	suppliers supplierService.Store
	referrals referralService.Store
	feedback  feedbackService.Store
	users     portalService.UserStore
	audit     audit.Store
}

// buildStores uses PostgreSQL for everything when a database is configured.
// Answers follow ANSWER_STORE independently.
func buildStores(cfg config.Server, i *infra) (*stores, error) {
	st := &stores{}
	if i.db != nil {
		st.suppliers = supplierStore.NewPostgres(i.db)
		st.referrals = referralStore.NewPostgres(i.db)
		st.feedback = feedbackStore.NewPostgres(i.db)
		st.users = portalStore.NewPostgres(i.db)
		st.audit = audit.NewPostgresStore(i.db)
	} else {
		st.suppliers = supplierStore.NewInMemory()
		st.referrals = referralStore.NewInMemory()
		st.feedback = feedbackStore.NewInMemory()
		st.users = portalStore.NewInMemory()
		st.audit = audit.NewInMemoryStore()
	}

	switch cfg.AnswerStore {
	case config.BackendMemory:
		st.answers = sessionStore.NewInMemory()
	case config.BackendPostgres:
		if i.db == nil {
			return nil, fmt.Errorf("answer store %q requires DATABASE_URL", cfg.AnswerStore)
		}
		st.answers = sessionStore.NewPostgres(i.db)
	case config.BackendRedis:
		if i.redis == nil {
			return nil, fmt.Errorf("answer store %q requires REDIS_URL", cfg.AnswerStore)
		}
		st.answers = sessionStore.NewRedis(i.redis.Client, cfg.Redis.AnswerTTL)
	default:
		return nil, fmt.Errorf("unknown answer store %q", cfg.AnswerStore)
	}
	return st, nil
}
