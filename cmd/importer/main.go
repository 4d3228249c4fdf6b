package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"storefront-admin/internal/config"
	"storefront-admin/internal/db"
	"storefront-admin/internal/importer"
	categoryrepo "storefront-admin/internal/repository/category"
	productrepo "storefront-admin/internal/repository/product"
)

func main() {
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	flags := pflag.NewFlagSet("importer", pflag.ExitOnError)
	filePath := flags.StringP("file", "f", "", "Path to a product or category CSV file")
	kindFlag := flags.String("kind", "", "File kind (products|categories); detected from headers when empty")
	_ = flags.Parse(os.Args[1:])

	if *filePath == "" {
		flags.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	kind := importer.Kind(*kindFlag)
	if kind == "" {
		kind, err = importer.DetectKind(f)
		if err != nil {
			logger.Fatalf("detect kind: %v", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			logger.Fatalf("rewind file: %v", err)
		}
	}

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool), logger)

	start := time.Now()
	var count int
	switch kind {
	case importer.KindProducts:
		count, err = imp.Run(ctx)
	case importer.KindCategories:
		count, err = imp.RunCategories(ctx)
	default:
		logger.Fatalf("unknown kind %q", kind)
	}
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d %s in %s\n", count, kind, time.Since(start).Truncate(time.Millisecond))
}
