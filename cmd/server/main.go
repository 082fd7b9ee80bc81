package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/database"
	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/logger"
	"github.com/iliyamo/seat-booking/internal/middleware"
	"github.com/iliyamo/seat-booking/internal/queue"
	"github.com/iliyamo/seat-booking/internal/repository"
	"github.com/iliyamo/seat-booking/internal/router"
	"github.com/iliyamo/seat-booking/internal/service"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		logrus.WithError(err).Fatal("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logger.Setup(os.Stdout, cfg.LogLevel, cfg.IsProd())
	if err != nil {
		log.WithError(err).Warn("unknown LOG_LEVEL, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, users, db, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	if db != nil {
		defer db.Close()
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	pub := newPublisher(cfg.Events)
	defer pub.Close()

	if cfg.Events.AuditConsumer {
		audit := &queue.AuditConsumer{URL: cfg.Events.RabbitURL, Queue: cfg.Events.Queue, LogPath: cfg.Events.AuditLogPath}
		go func() {
			if err := audit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("audit consumer stopped")
			}
		}()
	}

	bookings := service.NewBookingService(store, pub, cache)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, cfg.Env)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
	router.RegisterSeats(e, handler.NewSeatHandler(bookings), cache, cfg.JWTSecret, cfg.ResetKey)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "store": cfg.StoreDriver, "events": cfg.Events.Driver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}

// openStore returns the booking and user stores selected by STORE_DRIVER.
// db is nil for the in-memory store.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, repository.UserStore, *sql.DB, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logrus.Warn("using in-memory store; data is lost on restart")
		mem := repository.NewMemoryStore()
		return mem, mem, nil, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	store := repository.NewMySQLStore(db)
	if err := store.Seed(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return store, repository.NewUserRepo(db), db, nil
}

func newPublisher(cfg config.EventsConfig) queue.Publisher {
	switch cfg.Driver {
	case config.EventsRabbitMQ:
		return queue.NewRabbitPublisher(cfg.RabbitURL, cfg.Queue)
	case config.EventsKafka:
		return queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return queue.NopPublisher{}
	}
}
