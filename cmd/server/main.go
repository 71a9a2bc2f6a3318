package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Maksimell/shop_backend/internal/config"
	"github.com/Maksimell/shop_backend/internal/es"
	"github.com/Maksimell/shop_backend/internal/handlers"
	"github.com/Maksimell/shop_backend/internal/logging"
	authmw "github.com/Maksimell/shop_backend/internal/middleware/auth"
	"github.com/Maksimell/shop_backend/internal/mykafka"
	"github.com/Maksimell/shop_backend/internal/service/search"
	"github.com/Maksimell/shop_backend/internal/session"
	httpserver "github.com/Maksimell/shop_backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	sessionTTL := 24 * time.Hour
	if hours, err := strconv.Atoi(configuration.SESSION_TTL_HOURS); err == nil && hours > 0 {
		sessionTTL = time.Duration(hours) * time.Hour
	}
	sessions := &session.Service{
		DB:     db,
		Secret: []byte(configuration.SESSION_SECRET),
		TTL:    sessionTTL,
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	}

	searchService := &search.Service{Index: "products"}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchService.ES = esClient
	} else {
		logger.Info("search disabled: no ES_URL configured")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	deps := httpserver.Deps{
		DB:             db,
		Auth:           &authmw.Middleware{Sessions: sessions},
		AuthHandler:    &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod, Search: searchService},
		CartHandler:    &handlers.CartHandler{DB: db, Producer: prod},
		SearchHandler:  &handlers.SearchHandler{Service: searchService},
	}
	httpserver.Register(e, &deps)

	port := configuration.APP_PORT
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
