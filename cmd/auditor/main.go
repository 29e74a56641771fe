package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/clients/kafka"
	"max.ks1230/costs-service/internal/config"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/audit"
)

const metricsAddr = ":9102"

func main() {
	_ = godotenv.Load()

	logger.Info("auditor init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	consumer, err := kafka.NewConsumer(conf.Kafka(), audit.NewTrail())
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			logger.Error("metrics endpoint stopped", zap.Error(err))
		}
	}()

	logger.Info("auditor init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to start consuming", zap.Error(err))
	}
}
