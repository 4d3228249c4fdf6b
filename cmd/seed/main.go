package main

import (
	"context"
	"log"
	"os"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/db"
	categoryrepo "storefront-admin/internal/repository/category"
	orderrepo "storefront-admin/internal/repository/order"
	productrepo "storefront-admin/internal/repository/product"
	tokenrepo "storefront-admin/internal/repository/token"
	"storefront-admin/internal/seed"
	sessionsvc "storefront-admin/internal/service/session"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	res, err := seed.Apply(ctx, seed.Stores{
		Categories: categoryrepo.NewPostgres(pool),
		Products:   productrepo.NewPostgres(pool, logger),
		Orders:     orderrepo.NewPostgres(pool, logger),
		Sessions:   sessionsvc.New(tokenrepo.NewPostgres(pool), logger),
	}, time.Now().UTC(), logger)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied; chat token for %s: %s", seed.DemoUserID, res.Token)
}
