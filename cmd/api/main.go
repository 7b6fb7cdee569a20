package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpadp "loanflow/internal/adapter/http"
	"loanflow/internal/adapter/notifier"
	"loanflow/internal/adapter/repository/mysql"
	"loanflow/internal/adapter/upload"
	"loanflow/internal/adapter/userdir"
	"loanflow/internal/config"
	"loanflow/internal/domain/user"
	"loanflow/internal/infrastructure/cache"
	"loanflow/internal/infrastructure/db"
	"loanflow/internal/infrastructure/httpclient"
	"loanflow/internal/infrastructure/logging"
	"loanflow/internal/usecase/loan"
	notifUC "loanflow/internal/usecase/notification"
	"loanflow/internal/usecase/review"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("loanflow stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	hc := httpclient.New(log, cfg.HTTPRetries, cfg.HTTPTimeout)
	var dir user.Directory
	if cfg.UsersAPIURL != "" {
		dir = userdir.NewClient(cfg.UsersAPIURL, hc)
	} else {
		log.Warn("USERS_API_URL not set; manager decisions will not notify applicants")
	}

	queue := notifier.NewRedisQueue(rdb, cfg.NotifyQueueKey)
	var sender notifier.Sender = notifier.NewLogSender(log)
	if cfg.NotifyURL != "" {
		sender = notifier.NewHTTPSender(cfg.NotifyURL, hc)
	}
	worker := notifier.NewWorker(queue, sender, notifier.WorkerConfig{
		Interval:    cfg.NotifyInterval,
		MaxAttempts: cfg.NotifyMaxAttempts,
		Rate:        cfg.NotifyRate,
	}, log)
	log.Info("notification outbox", zap.String("key", queue.Key()))
	dispatcher := notifUC.NewDispatcher(queue, dir, log)

	loans := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	store, err := upload.NewLocalStore(cfg.UploadDir, "/uploads", cfg.UploadMaxBytes)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	httpadp.Register(e, httpadp.RouterDeps{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db":    sqlDB.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(loans, tx, dispatcher, dir, log), store, log),
		Reviews:     httpadp.NewReviewHandler(review.NewUsecase(loans, tx, dispatcher, log), log),
		Redis:       rdb,
		IdempTTL:    time.Duration(cfg.IdempTTLSecs) * time.Second,
		BodyLimit:   cfg.HTTPBodyLimit,
		Managers:    cfg.ManagerCredentials,
		UploadDir:   store.Dir(),
		UploadsPath: "/uploads",
		Log:         log,
	})
	if len(cfg.ManagerCredentials) == 0 {
		log.Warn("MANAGER_CREDENTIALS empty; manager routes will reject every request")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
