package main

import (
	"context"
	"fmt"

	"github.com/kimsann/payway-checkout/internal/adapter/auth"
	"github.com/kimsann/payway-checkout/internal/adapter/cache"
	"github.com/kimsann/payway-checkout/internal/adapter/client/payway"
	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/adapter/events"
	"github.com/kimsann/payway-checkout/internal/adapter/handler/http"
	"github.com/kimsann/payway-checkout/internal/adapter/logger"
	"github.com/kimsann/payway-checkout/internal/adapter/metrics"
	"github.com/kimsann/payway-checkout/internal/adapter/storage"
	"github.com/kimsann/payway-checkout/internal/adapter/storage/repository"
	"github.com/kimsann/payway-checkout/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := payway.NewClient(conf.PayWay, log.Named("PayWay"))
	if err != nil {
		log.Error("gateway client creating error", zap.Error(err))
		return
	}

	statusCache := cache.NewOrderCache(conf.Redis)
	publisher := events.NewPublisher(conf.Kafka, log.Named("Events"))
	defer func() { _ = publisher.Close() }()

	svc, err := service.NewService(repo, tokenService, gateway, statusCache, publisher, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	// Pick up payments whose callbacks were missed while we were down.
	go func() {
		if err := svc.RecoverPendingPayments(ctx); err != nil {
			log.Error("pending payment recovery error", zap.Error(err))
		}
	}()

	paymentMetrics := metrics.NewPaymentMetrics()

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	paymentHandler, err := http.NewPaymentHandler(svc, paymentMetrics, log.Named("Payment handler"))
	if err != nil {
		log.Error("payment handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, userHandler, orderHandler, paymentHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
