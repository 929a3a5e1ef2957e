package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	httpadp "tuka-portal/internal/adapter/http"
	"tuka-portal/internal/adapter/middleware"
	"tuka-portal/internal/adapter/repository/gormrepo"
	"tuka-portal/internal/config"
	"tuka-portal/internal/infrastructure/cache"
	"tuka-portal/internal/infrastructure/db"
	"tuka-portal/internal/infrastructure/storage"
	"tuka-portal/internal/usecase/auth"
	"tuka-portal/internal/usecase/loan"
	"tuka-portal/internal/usecase/review"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, then start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.StorageMinio {
		return storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}
	return storage.NewDisk(cfg.UploadRoot)
}

func serve(ctx context.Context) error {
	cfg, gdb, err := boot()
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	rdb, err := cache.OpenRedis(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("storage %s: %w", cfg.StorageDriver, err)
	}

	loans := gormrepo.NewLoanRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)
	metrics := middleware.NewMetrics()
	sessions := middleware.NewSessionStore(rdb, middleware.SessionOptions{
		CookieName: cfg.SessionCookie,
		TTL:        time.Duration(cfg.SessionTTLSecs) * time.Second,
		Secure:     cfg.SessionSecure,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.RequestID(),
		echomw.Recover(),
		echomw.BodyLimit(strconv.Itoa(cfg.MaxUploadMB)+"M"),
		middleware.RequestLogger(),
		metrics.Middleware(),
	)

	httpadp.RegisterRoutes(e, httpadp.Routes{
		Health:      httpadp.NewHandler(),
		Auth:        httpadp.NewAuthHandler(auth.NewUsecase(gormrepo.NewUserRepository(gdb)), sessions),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(loans, tx, store, cfg.DefaultInterestRate), metrics),
		Eligibility: httpadp.NewEligibilityHandler(),
		Review:      httpadp.NewReviewHandler(review.NewUsecase(loans, tx, store), metrics),
		Sessions:    sessions,
		Idempotency: middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
		Metrics:     metrics,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "db", cfg.DBDriver, "storage", cfg.StorageDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
