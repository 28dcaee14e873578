package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ManrajDhatt/Pet-Haven/config"
	"github.com/ManrajDhatt/Pet-Haven/db"
	"github.com/ManrajDhatt/Pet-Haven/handlers"
	applog "github.com/ManrajDhatt/Pet-Haven/logger"
	"github.com/ManrajDhatt/Pet-Haven/mailer"
	mw "github.com/ManrajDhatt/Pet-Haven/middleware"
	"github.com/ManrajDhatt/Pet-Haven/scheduler"
	"github.com/ManrajDhatt/Pet-Haven/storage"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.CreateTables(ctx, bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}
	if err := db.EnsureAdmin(ctx, bdb, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	mail := mailer.NewSES(cfg.AWSRegion, cfg.MailSender)
	uploads := storage.NewS3(cfg.AWSRegion, cfg.S3Bucket)

	h := handlers.New(bdb, cfg.JWTKey(), mail, uploads)

	// Reminder sweep runs on its own goroutine with its own failure domain;
	// cancelling ctx on shutdown stops it.
	go scheduler.New(bdb, mail, logger, cfg.ReminderInterval).Run(ctx)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signup", h.Signup)
	e.POST("/api/signin", h.Signin)

	// Authenticated – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.GET("/events", h.ListEvents)
	api.GET("/events/:id", h.GetEvent)
	api.POST("/events/:id/register", h.Register)
	api.GET("/registrations", h.MyRegistrations)
	api.PUT("/registrations/:id", h.EditRegistration)
	api.POST("/registrations/:id/pay", h.Pay)
	api.GET("/results/mine", h.MyResults)

	// Admin
	admin := api.Group("", mw.AdminOnly())
	admin.POST("/events", h.CreateEvent)
	admin.PUT("/events/:id", h.UpdateEvent)
	admin.GET("/events/:id/results", h.EventResults)
	admin.POST("/events/:id/results", h.AddResults)
	admin.PUT("/events/:id/results", h.UpdateResults)
	admin.POST("/registrations/:id/verify", h.VerifyPayment)
	admin.DELETE("/registrations/:id", h.DeleteRegistration)
	admin.GET("/admin/registrations", h.AllRegistrations)
	admin.GET("/admin/statistics", h.Statistics)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
