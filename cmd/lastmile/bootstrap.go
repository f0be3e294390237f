package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/config"
	"github.com/diggibyte/lastmile-user/internal/api/webapp"
	"github.com/diggibyte/lastmile-user/internal/auth"
	"github.com/diggibyte/lastmile-user/internal/broker/kafka"
	"github.com/diggibyte/lastmile-user/internal/cache/rediscache"
	"github.com/diggibyte/lastmile-user/internal/credentials"
	"github.com/diggibyte/lastmile-user/internal/integrations/traffic/mapboxhttp"
	"github.com/diggibyte/lastmile-user/internal/integrations/workspace/databrickshttp"
	"github.com/diggibyte/lastmile-user/internal/services/orders"
	"github.com/diggibyte/lastmile-user/internal/session"
	"github.com/diggibyte/lastmile-user/internal/storage/pgorders"
)

type app struct {
	ctx      context.Context
	cancel   context.CancelFunc
	opts     webAppOpts
	web      *webapp.WebApp
	svc      *orders.Service
	consumer *kafka.Consumer
	closeDB  func()
}

func mustBootstrap() *app {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	httpAddr := cfg.HTTP.Addr
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	creds := buildCredentials(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	st := mustOpenPostgresWithRetry(ctx, pgorders.ConnConfig{
		Host:    cfg.Database.Host,
		Port:    cfg.Database.Port,
		Name:    cfg.Database.Name,
		User:    cfg.Database.User,
		SSLMode: cfg.Database.SSLMode,
	}, creds, 60*time.Second)

	if cfg.Database.SeedDemo {
		if err := st.SeedDemo(ctx); err != nil {
			panic(fmt.Sprintf("failed to seed demo data: %v", err))
		}
	}

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	limiter := rediscache.NewRateLimiter(redisAddr)

	trafficClient := mapboxhttp.New(cfg.Traffic.BaseURL, cfg.Traffic.AccessToken)
	images := orders.NewImageDir(cfg.Images.Dir, cfg.Images.Fallback)
	svc := orders.New(st, trafficClient, rc, images, 10*time.Minute)

	verifier := auth.NewVerifier(st, cfg.VerifyPasswords())
	sessions := session.NewStore(rc)

	sessionTTL := time.Duration(cfg.Auth.SessionTTLSeconds) * time.Second
	web := webapp.New(svc, verifier, sessions, limiter, sessionTTL)

	var consumer *kafka.Consumer
	topic := cfg.Kafka.ShipmentEventsTopic
	group := cfg.Kafka.ConsumerGroup
	if cfg.Kafka.Host != "" && topic != "" {
		if group == "" {
			group = "lastmile-web"
		}
		brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
		consumer = kafka.NewConsumer(brokers, topic, group)
	}

	return &app{
		ctx:    ctx,
		cancel: cancel,
		opts: webAppOpts{
			httpAddr:      httpAddr,
			topic:         topic,
			consumerGroup: group,
		},
		web:      web,
		svc:      svc,
		consumer: consumer,
		closeDB:  st.Close,
	}
}

// buildCredentials picks the token source: an issuing workspace client for
// managed instances, a static personal access token for local development.
func buildCredentials(cfg *config.Config) pgorders.TokenSource {
	if cfg.Workspace.InstanceName != "" {
		issuer := databrickshttp.New(cfg.Workspace.Host, cfg.Workspace.Token)
		return credentials.NewProvider(issuer, cfg.Workspace.InstanceName)
	}
	if cfg.Workspace.Token != "" {
		return credentials.NewStatic(cfg.Workspace.Token)
	}
	panic("workspace instance_name or token is required for database credentials")
}

func mustOpenPostgresWithRetry(ctx context.Context, cc pgorders.ConnConfig, creds pgorders.TokenSource, wait time.Duration) *pgorders.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgorders.New(ctx, cc, creds)
		if err == nil {
			return st
		}
		if errors.Is(err, pgorders.ErrMissingConnConfig) {
			panic(fmt.Sprintf("database configuration incomplete: %v", err))
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *app) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.consumer != nil {
		_ = a.consumer.Close()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *app) Run() error {
	return runWebApp(a.ctx, a.opts, a.web, a.svc, a.consumer)
}
