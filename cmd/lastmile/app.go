package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/diggibyte/lastmile-user/internal/api/webapp"
	"github.com/diggibyte/lastmile-user/internal/broker/messages"
	"github.com/diggibyte/lastmile-user/internal/services/orders"
)

type webAppOpts struct {
	httpAddr string

	topic         string
	consumerGroup string

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

func runWebApp(ctx context.Context, opts webAppOpts, app *webapp.WebApp, svc *orders.Service, consumer kafkaConsumer) error {
	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	if consumer != nil {
		go func() {
			slog.Info("shipment events consumer started", "topic", opts.topic, "group", opts.consumerGroup)
			err := consumer.Consume(ctx, func(_key, value []byte) error {
				var m messages.ShipmentEventUpdated
				if err := json.Unmarshal(value, &m); err != nil {
					return err
				}
				return svc.ApplyEventUpdate(ctx, m)
			})
			if err != nil && !isCanceled(err) {
				slog.Error("shipment events consumer stopped", "topic", opts.topic, "error", err)
			}
		}()
	}

	srv := &http.Server{Handler: app.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	err = srv.Serve(lis)
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
