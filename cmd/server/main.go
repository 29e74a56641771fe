package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"max.ks1230/costs-service/internal/api"
	"max.ks1230/costs-service/internal/clients/cache"
	"max.ks1230/costs-service/internal/clients/kafka"
	"max.ks1230/costs-service/internal/config"
	"max.ks1230/costs-service/internal/entity/user"
	"max.ks1230/costs-service/internal/logger"
	"max.ks1230/costs-service/internal/model/costs"
	"max.ks1230/costs-service/internal/model/customerr"
	"max.ks1230/costs-service/internal/model/reports"
	"max.ks1230/costs-service/internal/model/storage"
	"max.ks1230/costs-service/internal/model/users"
)

const serviceName = "costs-service"

const defaultUserID = "123123"

func main() {
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config", zap.Error(err))
	}

	closer, err := initTracing(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() {
		_ = closer.Close()
	}()

	store, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = seedDefaultUser(ctx, store); err != nil {
		logger.Fatal("failed to seed default user", zap.Error(err))
	}

	var reportCache reports.ReportCache
	var invalidator costs.ReportInvalidator
	if hosts := conf.Memcached().Hosts(); len(hosts) > 0 {
		mc, mcErr := cache.NewMemcache(conf.Memcached())
		if mcErr != nil {
			logger.Fatal("failed to init memcached", zap.Error(mcErr))
		}
		reportCache = mc
		invalidator = mc
	}

	var events costs.EventProducer
	if brokers := conf.Kafka().Brokers(); len(brokers) > 0 {
		producer, prodErr := kafka.NewProducer(conf.Kafka())
		if prodErr != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(prodErr))
		}
		defer producer.Close()
		events = producer
	}

	recorder := costs.NewRecorder(store, events, invalidator)
	generator := reports.NewGenerator(store, reportCache)
	summaries := users.NewService(store)

	srv := api.NewServer(conf.Server(), recorder, generator, summaries)

	logger.Info("server listening", zap.Int("port", conf.Server().Port()))
	if err = srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newStorage(conf *config.Service) (storage.Storage, error) {
	switch backend := conf.Storage().Backend(); backend {
	case storage.BackendPostgres:
		return storage.NewPostgresStorage(conf.Postgres())
	case storage.BackendSqlite:
		return storage.NewSqliteStorage(conf.Sqlite())
	case storage.BackendMemory:
		return storage.NewInMemStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// seedDefaultUser makes sure the bootstrap user exists so the service is
// usable on a fresh store.
func seedDefaultUser(ctx context.Context, store storage.Storage) error {
	_, err := store.GetUserByID(ctx, defaultUserID)
	if err == nil {
		logger.Info("default user already exists", zap.String("userID", defaultUserID))
		return nil
	}
	var notFound *customerr.NotFoundError
	if !errors.As(err, &notFound) {
		return errors.Wrap(err, "seed default user")
	}

	birthday := time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	err = store.SaveUser(ctx, user.User{
		ID:            defaultUserID,
		FirstName:     "mosh",
		LastName:      "israeli",
		Birthday:      &birthday,
		MaritalStatus: "single",
	})
	if err != nil {
		return errors.Wrap(err, "seed default user")
	}
	logger.Info("default user created", zap.String("userID", defaultUserID))
	return nil
}

func initTracing(service string) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "cannot init tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
