package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"
	"storefront-admin/internal/config"
	"storefront-admin/internal/db"
	"storefront-admin/internal/migrate"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	down := flags.Int("down", 0, "Roll back this many migration steps instead of applying")
	_ = flags.Parse(os.Args[1:])

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

	if *down > 0 {
		if err := migrate.Rollback(ctx, pool, *down); err != nil {
			logger.Fatalf("rollback migrations: %v", err)
		}
		logger.Printf("rolled back %d step(s)", *down)
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Println("migrations applied")
}
