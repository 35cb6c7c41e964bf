package main

import (
	"context"

	"github.com/mmdatafocus/debt_gateway/config"
	"github.com/mmdatafocus/debt_gateway/models"
	"github.com/mmdatafocus/debt_gateway/services"
	"github.com/mmdatafocus/debt_gateway/workflow"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

const tracerName = "debt-gateway"

type dependencies struct {
	debts    *services.DebtService
	payments *services.PaymentService
}

// buildDependencies wires stores, workflows and services. Redis and Pub/Sub
// are optional; the service runs without them when they are not configured
// or not reachable. The returned func releases what was opened.
func buildDependencies(ctx context.Context, settings config.Settings, db *gorm.DB, logger *logrus.Logger) (*dependencies, func()) {
	var closers []func()
	tracer := otel.Tracer(tracerName)

	var rdb *redis.Client
	if settings.RedisAddress != "" {
		client, err := config.ConnectRedisWithRetry(ctx, settings.RedisAddress)
		if err != nil {
			logger.WithFields(logrus.Fields{"field": "redis"}).Warn("redis disabled: " + err.Error())
		} else {
			rdb = client
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	clients := models.NewClientStore(db)
	if rdb != nil {
		clients.WithCache(config.NewRedisCache(rdb), settings.ClientCacheTTL)
	}
	debts := models.NewDebtStore(db, settings.DebtIdMaxAttempts)
	payments := models.NewPaymentStore(db)

	reconciler := &workflow.Reconciler{
		Debts:    debts,
		Payments: payments,
		LockTTL:  settings.PaymentLockTTL,
		Logger:   logger,
		Tracer:   tracer,
	}
	if rdb != nil && settings.PaymentLockEnabled {
		reconciler.Locker = config.NewRedisLocker(rdb)
	}
	if settings.PaymentEventsTopic != "" {
		if publisher, closePublisher := connectEventPublisher(ctx, settings, logger); publisher != nil {
			reconciler.Events = publisher
			closers = append(closers, closePublisher)
		}
	}

	query := &workflow.DebtStatusQuery{
		Clients: clients,
		Debts:   debts,
		Logger:  logger,
		Tracer:  tracer,
	}

	deps := &dependencies{
		debts:    services.NewDebtService(query, logger),
		payments: services.NewPaymentService(reconciler, logger),
	}
	return deps, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func connectEventPublisher(ctx context.Context, settings config.Settings, logger *logrus.Logger) (*config.PubSubPublisher, func()) {
	client, err := config.ConnectPubSubWithRetry(ctx, settings.PubSubProjectID)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "pubsub"}).Warn("payment events disabled: " + err.Error())
		return nil, nil
	}
	topic, err := config.CreateTopicIfNotExists(ctx, client, settings.PaymentEventsTopic)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "pubsub"}).Warn("payment events disabled: " + err.Error())
		_ = client.Close()
		return nil, nil
	}
	publisher := config.NewPubSubPublisher(topic)
	return publisher, func() {
		publisher.Stop()
		_ = client.Close()
	}
}
