package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ekathu/internal/config"
	"ekathu/internal/infra/db"
	"ekathu/internal/infra/events"
	"ekathu/internal/infra/logger"
	"ekathu/internal/infra/memory"
	"ekathu/internal/infra/mongodb"
	infraRepo "ekathu/internal/infra/repository"
	"ekathu/internal/infra/storage"
	"ekathu/internal/infra/tracing"
	"ekathu/internal/repository"
	"ekathu/internal/server"
	auth "ekathu/internal/usecase/auth_usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// イベント送信先
type publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Setup(cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//トレース
	if cfg.TracingCollectorHost != "" {
		tp, err := tracing.InitTracing(ctx, cfg.TracingCollectorHost)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown tracing")
			}
		}()
	}

	//ストア
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	//イベント
	var pub publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		np, err := events.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		pub = np
	}
	defer pub.Close()

	images, err := storage.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare upload dir")
	}

	handlers, registerUC := server.NewHandlers(server.Deps{
		Store:           store,
		Events:          pub,
		Images:          images,
		IDGen:           &uuidGenerator{},
		Clock:           &realClock{},
		JWTSecret:       cfg.JWTSecret,
		BcryptCost:      12,
		GroupMaxMembers: cfg.GroupMaxMembers,
	})

	//管理者シード
	if cfg.AdminEmail != "" {
		created, err := registerUC.EnsureAdmin(ctx, auth.EnsureAdminInput{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admin")
		}
		if created {
			log.Info().Str("email", cfg.AdminEmail).Msg("admin created")
		}
	}

	e := server.New(cfg, store, handlers)
	if err := server.Start(ctx, cfg, e); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}

func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, err := db.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := mongodb.NewStore(ctx, client, cfg.MongoDB, cfg.MongoTransactions)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return s, nil
	case config.StoreDriverMemory:
		log.Warn().Msg("memory store: data is lost on restart")
		return memory.NewStore(), nil
	default:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
		return infraRepo.NewGormStore(gormDB), nil
	}
}
