package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hunger-insights/internal/app"
	"hunger-insights/internal/config"
	"hunger-insights/internal/domain"
	"hunger-insights/internal/infra/csvfile"
	"hunger-insights/internal/infra/memory"
	pgloader "hunger-insights/internal/infra/postgres"
	rediscache "hunger-insights/internal/infra/redis"
	"hunger-insights/internal/metrics"
	"hunger-insights/internal/quiz"
	transport "hunger-insights/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz and impact server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	predictionLoader, err := newPredictionLoader(cfg, pool, log)
	if err != nil {
		return err
	}
	predictionTTL := config.TTLDuration(cfg.Predictions.TTL, 10*time.Minute)
	var predictions app.PredictionRepository
	if redisClient != nil {
		predictions = rediscache.NewPredictionRepository(redisClient, predictionLoader, predictionTTL)
	} else {
		predictions = memory.NewPredictionRepository(predictionLoader, predictionTTL)
	}

	var bankLoader memory.BankLoader = memory.NewStaticBankLoader(builtinBanks())
	if pool != nil {
		bankLoader = pgloader.NewBankLoader(pool)
	}
	banks := memory.NewBankRepository(bankLoader, config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute))

	var store app.SessionRepository
	if redisClient != nil {
		store = rediscache.NewSessionStore(redisClient, config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute))
	} else {
		store = memory.NewSessionStore()
	}

	m := metrics.New()
	quizService := app.NewQuizService(store, banks, quiz.NewEngine(), m)
	impactService := app.NewImpactService(predictions, cfg.Impact, m)
	insightService := app.NewInsightService(predictions)

	wsHandler := transport.NewWSHandler(quizService, cfg.Quiz.Bank, log.Named("ws"))
	apiHandler := transport.NewAPIHandler(impactService, insightService, cfg.Impact.Year, log.Named("api"))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", m.Handler())
	apiHandler.Routes(mux, m.Middleware)
	// Not wrapped: the metrics recorder cannot hijack the connection.
	mux.HandleFunc("/ws/quiz", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting hunger insights service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newPredictionLoader prefers Postgres, then the configured CSV files. With
// neither, the calculator runs unadjusted and the insights report no data.
func newPredictionLoader(cfg config.Config, pool *pgxpool.Pool, log *zap.Logger) (memory.PredictionLoader, error) {
	switch {
	case pool != nil:
		return pgloader.NewPredictionLoader(pool), nil
	case cfg.Predictions.CountryCSV != "" && cfg.Predictions.GlobalCSV != "":
		loader, err := csvfile.NewLoader(cfg.Predictions.CountryCSV, cfg.Predictions.GlobalCSV)
		if err != nil {
			return nil, err
		}
		log.Info("predictions loaded from csv",
			zap.String("country", cfg.Predictions.CountryCSV),
			zap.String("global", cfg.Predictions.GlobalCSV))
		return loader, nil
	default:
		log.Warn("no prediction source configured")
		return memory.NewStaticPredictionLoader(nil, nil), nil
	}
}

func builtinBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		quiz.DefaultBankID: {ID: quiz.DefaultBankID, Questions: quiz.DefaultBank()},
	}
}
