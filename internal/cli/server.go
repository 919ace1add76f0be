package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jfk-emergence-service/internal/app"
	"jfk-emergence-service/internal/config"
	"jfk-emergence-service/internal/infra/memory"
	"jfk-emergence-service/internal/infra/postgres"
	redisinfra "jfk-emergence-service/internal/infra/redis"
	"jfk-emergence-service/internal/logging"
	"jfk-emergence-service/internal/scale"
	transport "jfk-emergence-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// recordStore is what the server needs from a persistence backend.
type recordStore interface {
	app.RecordSink
	transport.RecordLister
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer log.Sync()

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
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var loader memory.ScaleLoader = memory.NewStaticScaleLoader(scale.Catalog())
	var records recordStore = memory.NewRecordStore()
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgScales := postgres.NewScaleLoader(pool)
		if err := seedScales(ctx, pgScales, log); err != nil {
			return err
		}
		loader = pgScales
		records = postgres.NewRecordStore(pool)
	}

	cacheTTL := config.TTLDuration(cfg.Scale.CacheTTL, 10*time.Minute)
	var scales app.ScaleRepository
	if redisClient != nil {
		scales = redisinfra.NewScaleRepository(redisClient, loader, cacheTTL)
	} else {
		scales = memory.NewScaleRepository(loader, cacheTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	defaultScale := cfg.Scale.Default
	if defaultScale == "" {
		defaultScale = scale.JFKID
	}
	advance := config.TTLDuration(cfg.Scale.AutoAdvance, app.DefaultAutoAdvanceDelay)

	service := app.NewAssessmentService(sessions, scales, records, advance, log)
	wsHandler := transport.NewWSHandler(service, defaultScale, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/records", transport.NewRecordsHandler(records, log))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting assessment service", zap.String("port", finalPort), zap.String("scale", defaultScale))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
