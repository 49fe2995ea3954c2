package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/income-planner/internal/clients/cache"
	"max.ks1230/income-planner/internal/clients/kafka"
	"max.ks1230/income-planner/internal/clients/tg"
	"max.ks1230/income-planner/internal/clock"
	"max.ks1230/income-planner/internal/config"
	"max.ks1230/income-planner/internal/logger"
	"max.ks1230/income-planner/internal/model/coordinator"
	"max.ks1230/income-planner/internal/model/docstore"
	"max.ks1230/income-planner/internal/model/messages"
	"max.ks1230/income-planner/internal/model/storage"
)

const (
	probabilisticSampleRate = 0.1
	shutdownTimeout         = 5 * time.Second
)

func main() {
	logger.Info("Planner init - start")
	defer logger.Sync()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	tracingCloser := initTracing(conf.Tracing())
	defer tracingCloser.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wallClock := clock.System{Location: conf.App().Location()}
	storeOpts := []docstore.Option{docstore.WithClock(wallClock)}

	var documents docstore.Storage
	if conf.Postgres().Enabled() {
		db, err := storage.NewPostgresStorage(conf.Postgres())
		if err != nil {
			logger.Fatal("failed to init postgres:", zap.Error(err))
		}
		defer db.Close()
		documents = db
	} else {
		logger.Warn("postgres is not configured, documents live in memory")
		documents = storage.NewInMemStorage()
	}

	if conf.Memcached().Enabled() {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Error("memcached is unavailable, reading without cache", zap.Error(err))
		} else {
			storeOpts = append(storeOpts, docstore.WithCache(mc))
		}
	}

	var producer *kafka.Producer
	if conf.Kafka().Enabled() {
		producer, err = kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer", zap.Error(err))
		}
		defer producer.Close()
		storeOpts = append(storeOpts, docstore.WithPublisher(producer))
	}

	store := docstore.New(documents, storeOpts...)

	var consumer *kafka.Consumer
	if producer != nil {
		consumer, err = kafka.NewConsumer(conf.Kafka(), store.Hub())
		if err != nil {
			logger.Fatal("failed to init kafka consumer", zap.Error(err))
		}
		defer consumer.Close()
	}

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	var msgService *messages.Service
	coordOpts := []coordinator.Option{
		coordinator.WithDebounce(conf.App().DebounceDelay()),
		coordinator.WithWriteTimeout(conf.App().WriteTimeout()),
		coordinator.WithClock(wallClock),
		coordinator.WithListener(func(status coordinator.Status) {
			msgService.NotifyStatus(status)
		}),
	}
	if conf.Replica().Enabled() {
		replica, err := storage.NewSQLiteStorage(conf.Replica().Path())
		if err != nil {
			logger.Fatal("failed to open local replica", zap.Error(err))
		}
		defer replica.Close()
		coordOpts = append(coordOpts, coordinator.WithReplica(replica))
	}

	sessions := coordinator.NewManager(func() *coordinator.Coordinator {
		return coordinator.New(store, coordOpts...)
	})
	defer sessions.Close()

	msgService = messages.NewService(client, sessions, store, conf.App())

	logger.Info("Planner init - end")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		client.ListenUpdates(ctx, msgService)
		return nil
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.StartConsuming(ctx)
		})
	}
	if conf.Metrics().Enabled() {
		serveMetrics(ctx, g, conf.Metrics().ListenAddr())
	}

	if err = g.Wait(); err != nil {
		logger.Error("planner stopped with error", zap.Error(err))
	}
}

type tracingConfig interface {
	ServiceName() string
	AgentHostPort() string
	SampleAllTraces() bool
}

func initTracing(cfg tracingConfig) io.Closer {
	sampler := &jaegercfg.SamplerConfig{
		Type:  jaeger.SamplerTypeProbabilistic,
		Param: probabilisticSampleRate,
	}
	if cfg.SampleAllTraces() {
		sampler = &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		}
	}

	jcfg := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName(),
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHostPort(),
		},
	}
	tracer, closer, err := jcfg.NewTracer()
	if err != nil {
		logger.Error("cannot init tracing, spans are dropped", zap.Error(err))
		return nopCloser{}
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	g.Go(func() error {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "metrics server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
