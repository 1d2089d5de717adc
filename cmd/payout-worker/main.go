package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Linck01/honorbet-rest/internal/payout-worker/consumer"
	httpapi "github.com/Linck01/honorbet-rest/internal/payout-worker/http"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/notify"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/queue"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/repo"
	"github.com/Linck01/honorbet-rest/internal/payout-worker/worker"
	sharedcache "github.com/Linck01/honorbet-rest/internal/shared/cache"
	"github.com/Linck01/honorbet-rest/internal/shared/config"
	"github.com/Linck01/honorbet-rest/internal/shared/db"
	"github.com/Linck01/honorbet-rest/internal/shared/kafka"
	"github.com/Linck01/honorbet-rest/internal/shared/logger"
	"github.com/Linck01/honorbet-rest/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	store := repo.NewPostgres(pg)
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
		log.Info("schema migrated")
	}

	// Kafka: entrada bet_closed, saída bet_paid e DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetClosed, cfg.ServiceName)
	defer reader.Close()
	paidWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPaid)
	defer paidWriter.Close()
	dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPayoutDLQ)
	defer dlqWriter.Close()

	publisher := &notify.KafkaPublisher{Paid: paidWriter, DLQ: dlqWriter}

	// Métricas Prometheus
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPayout(reg)

	w := worker.New(log, queue.New(), store, store, store)
	w.Audit = store
	w.Notifier = notify.Multi{notify.NewRedisNotifier(redisClient, cfg.RedisNotifyPrefix), publisher}
	w.Failures = publisher
	w.Interval = cfg.PayoutInterval
	w.RequeueOnFailure = cfg.RequeueOnFailure
	w.OnSettled = func(d time.Duration) {
		m.Settled.Inc()
		m.Duration.Observe(d.Seconds())
	}
	w.OnFailed = func(stage string) { m.Failed.WithLabelValues(stage).Inc() }
	w.OnQueueSize = func(n int) { m.QueueDepth.Set(float64(n)) }

	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Queue:      w,
		OnConsumed: func() { m.Consumed.Inc() },
		OnError:    func(phase string) { m.ConsumerErrors.WithLabelValues(phase).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, reg, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	api := &httpapi.API{Log: log, Payouts: w, Queue: w.Queue, Tips: store}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("payout api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", zap.Error(err))
			cancel()
		}
	}()

	go func() {
		if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("consumer stopped with error", zap.Error(err))
		}
	}()

	log.Info("payout-worker started", zap.Duration("interval", cfg.PayoutInterval))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("worker stopped with error", zap.Error(err))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("payout-worker stopped", zap.Int("pending", w.Queue.Len()))
}
