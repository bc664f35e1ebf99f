package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/shared"
	"github.com/stocktrack/backend/internal/infrastructure/config"
	"github.com/stocktrack/backend/internal/infrastructure/logger"
	"github.com/stocktrack/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	switch command {
	case "up":
		if err := db.Migrate(); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema is up to date")

	case "seed":
		if err := db.Migrate(); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		created, err := seedCatalog(db)
		if err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Catalog seeded", zap.Int("products_created", created))

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

type seedProduct struct {
	sku      string
	name     string
	category string
	quantity int
	price    string
}

var seedProducts = []seedProduct{
	{"LAPTOP001", "Gaming Laptop", "Electronics", 15, "1299.99"},
	{"PHONE001", "Smartphone Pro", "Electronics", 45, "899.99"},
	{"MOUSE001", "Wireless Mouse", "Electronics", 80, "29.99"},
	{"DESK001", "Standing Desk", "Furniture", 8, "450.00"},
	{"CHAIR001", "Ergonomic Chair", "Furniture", 3, "320.00"},
	{"CABLE001", "USB-C Cable", "Accessories", 0, "9.99"},
}

// seedCatalog inserts the sample products, skipping SKUs that already exist
func seedCatalog(db *persistence.Database) (int, error) {
	repo := persistence.NewGormProductRepository(db.DB)
	ctx := context.Background()

	created := 0
	for _, s := range seedProducts {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return created, err
		}
		product, err := catalog.NewProduct(s.sku, s.name, s.category, s.quantity, price)
		if err != nil {
			return created, err
		}
		if err := repo.Create(ctx, product); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func printUsage() {
	fmt.Println(`StockTrack schema tool

Usage:
  migrate [flags] <command>

Commands:
  up      Create or update the database schema
  seed    Migrate, then insert sample catalog products

Flags:
  -log-level string   Log level: debug, info, warn, error (default: info)

Configuration is read from config.toml and STOCKTRACK_* environment
variables, the same as the server.`)
}
