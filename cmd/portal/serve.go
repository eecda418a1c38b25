package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"portal/internal/app"
	"portal/internal/handlers"
	"portal/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.New("main").Function("serve")

	portal, err := app.New(cfg)
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := portal.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server := fiber.New(fiber.Config{
		AppName:               "pension-portal " + cfg.GeneralVersion,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	server.Use(requestid.New())
	server.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	server.Use(helmet.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: cfg.ServerCorsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))

	if err := handlers.Router(server, portal); err != nil {
		return log.Err("failed to register routes", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Info("Server listening", "addr", addr, "environment", cfg.Environment)
		listenErr <- server.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return log.Err("server stopped", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return log.Err("graceful shutdown failed", err)
	}
	return nil
}
