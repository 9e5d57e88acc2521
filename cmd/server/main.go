// cmd/server/main.go
package main

import (
	"context"
	"database/sql"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/config"
	g "github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/grpc"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/memory"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/redis"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/adapters/repository"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/pkg/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file loaded", zap.Error(envErr))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openRepository(ctx, cfg, logger)
	defer closeRepo()
	cache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	srv := g.NewServer(repo, cache, tokens, g.Options{
		DispatchDelay: cfg.Dispatch.Delay,
		Logger:        logger,
	})
	defer srv.Close()

	if cfg.Admin.Password != "" {
		created, err := srv.Auth().SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
		if created {
			logger.Info("admin user created", zap.String("username", cfg.Admin.Username))
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, skipping admin seeding")
	}

	lis, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.Server.Addr()), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(g.UnaryLoggingInterceptor(logger), srv.UnaryAuthInterceptor),
		grpc.ChainStreamInterceptor(g.StreamLoggingInterceptor(logger), srv.StreamAuthInterceptor),
	)
	healthServer := srv.Register(grpcServer)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		healthServer.Shutdown()
		srv.Close()
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.Duration("dispatch_delay", cfg.Dispatch.Delay))
	if err := grpcServer.Serve(lis); err != nil {
		logger.Fatal("failed to serve", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.RepositoryPort, func()) {
	if cfg.Storage.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return memory.NewRepository(), func() {}
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Fatal("failed to ping DB", zap.String("host", cfg.Database.Host), zap.Error(err))
	}
	if err := repository.InitSchema(ctx, db); err != nil {
		logger.Fatal("failed to init DB", zap.Error(err))
	}
	return repository.NewPostgresRepository(db), func() { db.Close() }
}

func openCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.CachePort, func()) {
	if cfg.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-process cache")
		return memory.NewCache(cfg.Cache.TTL), func() {}
	}
	cache := redis.NewCache(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.TTL)
	if err := cache.Ping(ctx); err != nil {
		logger.Fatal("failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return cache, func() { cache.Close() }
}
