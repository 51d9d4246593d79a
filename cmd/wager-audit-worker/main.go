package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/audit/consumer"
	"github.com/radieske/chess-bet-client/internal/audit/repo"
	"github.com/radieske/chess-bet-client/internal/shared/config"
	"github.com/radieske/chess-bet-client/internal/shared/db"
	"github.com/radieske/chess-bet-client/internal/shared/kafka"
	"github.com/radieske/chess-bet-client/internal/shared/logger"
	"github.com/radieske/chess-bet-client/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load(config.ServiceAuditWorker)
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres: journal de auditoria
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	store := repo.NewPostgres(pg)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("postgres schema", zap.Error(err))
	}

	// Kafka consumer (consumer group wager-audit) e DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicWagerOperations, "wager-audit")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicWagerOperationsDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerOperationsDLQ)
		defer dlqWriter.Close()
	}

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "wager_audit_messages_consumed_total", Help: "mensagens consumidas"})
	persisted := prometheus.NewCounter(prometheus.CounterOpts{Name: "wager_audit_db_writes_total", Help: "operações gravadas"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{Name: "wager_audit_duplicates_total", Help: "reentregas ignoradas"})
	dlqSent := prometheus.NewCounter(prometheus.CounterOpts{Name: "wager_audit_dlq_total", Help: "mensagens enviadas à DLQ"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wager_audit_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persisted, duplicates, dlqSent, errorsBy)

	proc := &consumer.Processor{
		Log:        log,
		Reader:     reader,
		Store:      store,
		Retries:    3,
		RetryDelay: 300 * time.Millisecond,

		OnConsumed:  func() { consumed.Inc() },
		OnPersisted: func() { persisted.Inc() },
		OnDuplicate: func() { duplicates.Inc() },
		OnDLQ:       func() { dlqSent.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}
	if dlqWriter != nil {
		proc.DLQ = dlqWriter
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, pg.PingContext, log)
	defer metricsSrv.Close()
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	log.Info("wager-audit-worker started",
		zap.String("consume", cfg.TopicWagerOperations),
		zap.String("dlq", cfg.TopicWagerOperationsDLQ),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("wager-audit-worker stopped")
}
