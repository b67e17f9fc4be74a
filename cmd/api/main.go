package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/medinfo/medinfo-api/internal/classifier"
	"github.com/medinfo/medinfo-api/internal/config"
	"github.com/medinfo/medinfo-api/internal/handler"
	authhandler "github.com/medinfo/medinfo-api/internal/handler/auth"
	drughandler "github.com/medinfo/medinfo-api/internal/handler/drug"
	healthhandler "github.com/medinfo/medinfo-api/internal/handler/health"
	"github.com/medinfo/medinfo-api/internal/middleware"
	"github.com/medinfo/medinfo-api/internal/repository/postgres"
	"github.com/medinfo/medinfo-api/internal/router"
	authservice "github.com/medinfo/medinfo-api/internal/service/auth"
	drugservice "github.com/medinfo/medinfo-api/internal/service/drug"
	"github.com/medinfo/medinfo-api/internal/session"
	"github.com/medinfo/medinfo-api/pkg/auth"
	"github.com/medinfo/medinfo-api/pkg/logger"
	"github.com/medinfo/medinfo-api/pkg/metrics"
	"github.com/medinfo/medinfo-api/pkg/security"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:  level,
		Output: os.Stdout,
		Pretty: cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	met := metrics.New("medinfo")

	drugRepo := postgres.NewDrugRepository(db)
	userRepo := postgres.NewUserRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	sessions := session.NewStore(cfg.Session.TTL)

	cls := classifier.NewClient(classifier.Config{
		URL:     cfg.Classifier.URL,
		Timeout: cfg.Classifier.Timeout,
	}, met, log.ZL)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Duration)
	hasher := security.NewBcryptHasher(security.DefaultCost)

	authSvc := authservice.NewService(userRepo, jwtSvc, hasher, log.ZL)
	drugSvc := drugservice.NewService(drugRepo, outboxRepo, cls, sessions, met, log.ZL)

	handler.RegisterValidations()

	r := router.New(cfg, log, middleware.NewAuthMiddleware(authSvc), router.Handlers{
		Auth:   authhandler.NewHandler(authSvc),
		Drug:   drughandler.NewHandler(drugSvc),
		Health: healthhandler.NewHandler(db),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{"port": cfg.Server.Port}).Info("api server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
