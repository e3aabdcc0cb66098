package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"gorm.io/gorm"

	"howtoplatform/internal/application/usecase"
	"howtoplatform/internal/authz"
	"howtoplatform/internal/config"
	"howtoplatform/internal/infrastructure/cache"
	"howtoplatform/internal/infrastructure/repository"
	"howtoplatform/internal/infrastructure/security"
	"howtoplatform/internal/middleware"
	grpc_handler "howtoplatform/internal/transport/grpc"
	handlers "howtoplatform/internal/transport/http"
	"howtoplatform/internal/validation"
)

// Server runs the HTTP API and the gRPC health endpoint side by side.
type Server struct {
	cfg        config.Config
	db         *gorm.DB
	rdb        *redis.Client
	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
}

// New wires repositories, use cases and transports over an open database.
// rdb may be nil.
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	gate := authz.NewGate()
	v := validation.New()
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	authUC := usecase.NewAuthUseCase(userRepo, hasher, tokenManager, cache.NewTokenCache(rdb), v)
	lessonCache := cache.NewLessonCache(rdb, cfg.LessonCacheTTL)
	lessonUC := usecase.NewLessonUseCase(lessonRepo, lessonCache, gate, v)
	accountUC := usecase.NewAccountUseCase(userRepo, repository.NewRoleRepository(db), lessonRepo, lessonCache, hasher, gate, v)
	favoriteUC := usecase.NewFavoriteUseCase(repository.NewFavoriteRepository(db), lessonRepo, gate)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, lessonRepo, lessonCache, gate, v)
	forumUC := usecase.NewForumUseCase(repository.NewForumRepository(db), gate, v)

	router := handlers.NewRouter(handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authUC),
		Users:      handlers.NewUserHandler(accountUC),
		Lessons:    handlers.NewLessonHandler(lessonUC),
		Favorites:  handlers.NewFavoriteHandler(favoriteUC),
		Categories: handlers.NewCategoryHandler(categoryUC),
		Forum:      handlers.NewForumHandler(forumUC),
	}, authUC, middleware.NewRateLimiter(rdb), cfg.Origins())

	grpcServer, hs := grpc_handler.NewServer(grpc_handler.DBPinger{DB: db})

	return &Server{
		cfg: cfg,
		db:  db,
		rdb: rdb,
		httpServer: &http.Server{
			Addr:              cfg.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcServer: grpcServer,
		health:     hs,
	}
}

// Run serves until ctx is cancelled or a listener fails, then shuts both
// servers down and closes the database and redis connections.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)

	go func() {
		slog.Info("http server listening", "addr", s.cfg.HTTPPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("grpc health server listening", "addr", s.cfg.GRPCPort)
		if err := s.grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go grpc_handler.Watch(watchCtx, s.health, grpc_handler.DBPinger{DB: s.db}, 15*time.Second)

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-errCh:
		slog.Error("server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(shutdownCtx)
	s.health.Shutdown()
	s.grpcServer.GracefulStop()

	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	return runErr
}
