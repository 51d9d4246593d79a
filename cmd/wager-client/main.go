package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/internal/shared/cache"
	"github.com/radieske/chess-bet-client/internal/shared/config"
	"github.com/radieske/chess-bet-client/internal/shared/kafka"
	"github.com/radieske/chess-bet-client/internal/shared/logger"
	"github.com/radieske/chess-bet-client/internal/shared/metrics"
	"github.com/radieske/chess-bet-client/internal/wager-client/betsync"
	"github.com/radieske/chess-bet-client/internal/wager-client/chain"
	httpapi "github.com/radieske/chess-bet-client/internal/wager-client/http"
	"github.com/radieske/chess-bet-client/internal/wager-client/producer"
	"github.com/radieske/chess-bet-client/internal/wager-client/provider"
	"github.com/radieske/chess-bet-client/internal/wager-client/pubsub"
	"github.com/radieske/chess-bet-client/internal/wager-client/ws"
	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

func main() {
	cfg, err := config.Load(config.ServiceWagerClient)
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	if !common.IsHexAddress(cfg.BetContractAddress) {
		log.Fatal("BET_CONTRACT_ADDRESS must be a hex address", zap.String("value", cfg.BetContractAddress))
	}
	contract := common.HexToAddress(cfg.BetContractAddress)

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Provider: a conexão com o nó é feita pelo Initialize, não aqui
	handle, err := provider.New(cfg.EthRPCURL, cfg.AccountPrivateKey, log)
	if err != nil {
		log.Fatal("provider", zap.Error(err))
	}
	defer handle.Close()

	proxy := chain.NewProxy(contract, handle, log)
	decoder := chain.NewDecoder(contract)

	// Redis: fanout do estado entre instâncias
	redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()
	// origin identifica esta sessão no canal compartilhado
	origin := uuid.NewString()
	broadcaster := pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel, origin)

	// Kafka: trilha de auditoria das operações
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerOperations)
	defer writer.Close()
	publisher := producer.NewKafkaPublisher(writer, cfg.TopicWagerOperations)

	// Métricas Prometheus das operações
	opsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wager_operations_total", Help: "operações concluídas"}, []string{"op", "outcome"})
	opErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "wager_operation_errors_total", Help: "falhas por tipo"}, []string{"op", "kind"})
	opDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wager_operation_duration_seconds",
		Help:    "duração da chamada remota até o estado final",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"op"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{Name: "wager_operation_in_flight", Help: "1 enquanto há operação em andamento"})
	prometheus.MustRegister(opsTotal, opErrors, opDuration, inFlight)

	ctrl := betsync.New(log, handle, proxy, decoder, betsync.Options{
		PayoutGasLimit: cfg.PayoutGasLimit,
		StrictCaller:   cfg.StrictCaller,
		OnStart:        func(betsync.Op) { inFlight.Inc() },

		// Após cada operação: métricas, auditoria e broadcast. Falhas aqui só geram log.
		OnSettled: func(s betsync.Settlement) {
			inFlight.Dec()
			op := string(s.Op)
			opDuration.WithLabelValues(op).Observe(s.Duration.Seconds())
			if s.Err != nil {
				opsTotal.WithLabelValues(op, events.OutcomeError).Inc()
				opErrors.WithLabelValues(op, string(s.Err.Kind)).Inc()
			} else {
				opsTotal.WithLabelValues(op, events.OutcomeOK).Inc()
			}

			pctx, pcancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pcancel()

			if err := publisher.PublishOperation(pctx, s); err != nil {
				log.Warn("audit publish failed", zap.String("op_id", s.OpID), zap.Error(err))
			}
			if err := broadcaster.PublishState(pctx, s.OpID, s.State); err != nil {
				log.Warn("state broadcast failed", zap.String("op_id", s.OpID), zap.Error(err))
			}
		},
	})

	// WebSocket: recebe do Redis os estados desta sessão
	hub := ws.NewHub(log, func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, log, redisClient, cfg.RedisPubSubChannel, origin, hub)

	api := &httpapi.API{
		Log:  log,
		Ctrl: ctrl,
		WS: hub.HandleWS(func() events.WagerSnapshot {
			return pubsub.Snapshot(origin, "", ctrl.State())
		}),
	}
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := handle.Ping(ctx); err != nil {
			return fmt.Errorf("rpc: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	}, log)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Sessão começa lendo o estado do contrato
	go func() {
		if err := ctrl.Initialize(ctx); err != nil {
			log.Warn("initialize skipped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
		_ = metricsSrv.Shutdown(sctx)
	}()

	log.Info("wager-client started",
		zap.String("addr", srv.Addr),
		zap.String("contract", contract.Hex()),
		zap.String("rpc", cfg.EthRPCURL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server failed", zap.Error(err))
	}
	log.Info("wager-client stopped")
}
