package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-admin/internal/agent"
	"storefront-admin/internal/assets"
	"storefront-admin/internal/config"
	"storefront-admin/internal/db"
	"storefront-admin/internal/events"
	"storefront-admin/internal/httpserver"
	"storefront-admin/internal/insights"
	"storefront-admin/internal/llm"
	categoryrepo "storefront-admin/internal/repository/category"
	orderrepo "storefront-admin/internal/repository/order"
	productrepo "storefront-admin/internal/repository/product"
	statsrepo "storefront-admin/internal/repository/stats"
	tokenrepo "storefront-admin/internal/repository/token"
	categorysvc "storefront-admin/internal/service/category"
	dashboardsvc "storefront-admin/internal/service/dashboard"
	ordersvc "storefront-admin/internal/service/order"
	productsvc "storefront-admin/internal/service/product"
	sessionsvc "storefront-admin/internal/service/session"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	statsRepo := statsrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	images := assets.New(cfg.AssetsDir, cfg.AssetsBaseURL, logger)
	productService := productsvc.New(productRepo, images, logger)
	orderService := ordersvc.New(orderRepo, logger)
	dashboardService := dashboardsvc.New(productRepo, orderRepo)
	categoryService := categorysvc.New(categoryRepo)
	sessionService := sessionsvc.New(tokenRepo, logger)

	llmClient := llm.New(cfg.LLM, logger)
	insightsService := insights.New(statsRepo, llmClient, logger)
	var chat httpserver.ChatAgent
	if llmClient.Enabled() {
		chat = agent.New(llmClient, productRepo, orderRepo, cfg.ChatMaxSteps, logger)
		logger.Printf("chat enabled provider=%s", llmClient.Provider())
	} else {
		logger.Printf("chat disabled: no LLM api key configured")
	}

	hub := events.NewHub(0, logger)
	defer hub.Close()
	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	go func() {
		if err := events.NewListener(dbpool, hub, logger).Run(listenCtx); err != nil {
			logger.Printf("event listener stopped: %v", err)
		}
	}()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:   productService,
		OrderSvc:     orderService,
		DashboardSvc: dashboardService,
		CategorySvc:  categoryService,
		Events:       hub,
		Chat:         chat,
		Sessions:     sessionService,
		InsightsSvc:  insightsService,
		AdminAPIKey:  cfg.AdminAPIKey,
		CORSOrigins:  cfg.CORSOrigins,
		AssetsDir:    images.Dir(),
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopListening()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
