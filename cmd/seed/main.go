package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixshop/storefront/internal/config"
	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/repo"
)

// Seeds the catalog for dev environments. Skips when products already exist.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	r := &repo.GormRepo{DB: db}

	n, err := r.CountProducts(ctx)
	if err != nil {
		log.Fatalf("count products: %v", err)
	}
	if n > 0 {
		log.Printf("catalog already has %d product(s), skipping seed", n)
		return
	}

	images, _ := json.Marshal([]string{
		"https://cdn.pixshop.example/products/vf-bloom/1.jpg",
		"https://cdn.pixshop.example/products/vf-bloom/2.jpg",
		"https://cdn.pixshop.example/products/vf-bloom/3.jpg",
	})

	product := &models.Product{
		Name:        "VF Bloom Desodorante Colônia 75ml",
		Subtitle:    "a beleza no sutil florescer do aroma",
		Description: "Desodorante colônia floral frutado de longa duração.",
		Price:       decimal.RequireFromString("94.90"),
		OriginalPrice: decimal.NullDecimal{
			Decimal: decimal.RequireFromString("329.00"),
			Valid:   true,
		},
		Rating:      decimal.RequireFromString("4.5"),
		ReviewCount: 4901,
		Images:      string(images),
		Category:    "perfumaria",
		Brand:       "WePink",
	}

	if err := r.CreateProduct(ctx, product); err != nil {
		log.Fatalf("seed product: %v", err)
	}
	log.Printf("seeded product %s", product.ID)
}
