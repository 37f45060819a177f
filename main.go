package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"

	"github.com/kwybro/cookbooks/internal/app"
	"github.com/kwybro/cookbooks/internal/config"
	"github.com/kwybro/cookbooks/internal/logger"
)

func main() {
	// Initialize structured logger with correlation id propagation
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Infrastructure: Postgres, migrations, Weaviate schema, NSQ
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	// 3. Services & pipeline
	application, err := app.New(ctx, cfg, deps.DB, deps.WeaviateClient, deps.NSQProducer)
	if err != nil {
		slog.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	// 4. Worker (Task Consumer)
	nsqCfg := nsq.NewConfig()
	consumer, err := nsq.NewConsumer(config.TopicProcessIndex, "backend", nsqCfg)
	if err != nil {
		slog.Error("failed to create NSQ consumer", "error", err)
		os.Exit(1)
	}
	consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
		return application.TaskConsumer.HandleMessage(m)
	}))
	if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
		slog.Error("failed to connect to NSQLookupd", "error", err)
		os.Exit(1)
	}
	slog.Info("index image worker started", "topic", config.TopicProcessIndex)

	<-ctx.Done()
	slog.Info("shutting down...")
	consumer.Stop()
	<-consumer.StopChan
	deps.NSQProducer.Stop()
}
