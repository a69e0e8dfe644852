// Siembra datos de demostración para entornos locales: una asociación con
// categorías y productos en distintos niveles de stock, lista para probar el
// libro de movimientos, las alertas y los reportes.
//
// Uso: go run ./cmd/seed (usa la misma configuración que el servidor).
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/tenant"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

const (
	seedEmail = "demo@almacen.local"
	seedName  = "Asociación Demo"
)

type seedProduct struct {
	name        string
	category    string
	price       int64
	quantity    int64
	unit        string
	minQuantity int64
}

var seedProducts = []seedProduct{
	{"Café tostado", "Granos", 28000, 120, "kg", 10},
	{"Arroz blanco", "Granos", 4200, 300, "kg", 50},
	{"Leche entera", "Lácteos", 3800, 45, "L", 20},
	{"Queso campesino", "Lácteos", 16000, 8, "kg", 10}, // bajo el mínimo: dispara alerta
	{"Panela", "Endulzantes", 5500, 0, "und", 5},       // agotado
	{"Jabón en barra", "Aseo", 2900, 60, "und", 15},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	resolver := tenant.NewResolver(tenantRepo)
	demo, err := resolver.ResolveOrCreate(ctx, seedEmail, seedName)
	if err != nil {
		log.Fatal().Err(err).Msg("crear tenant demo")
	}
	log.Info().Str("tenant_id", demo.ID).Str("email", demo.Email).Msg("tenant demo listo")

	// Evitar doble siembra: si ya hay productos, no hay nada que hacer.
	existing, err := productRepo.ListByTenant(ctx, demo.ID, repository.ProductFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	if len(existing) > 0 {
		log.Info().Int("products", len(existing)).Msg("el tenant demo ya tiene datos; nada que sembrar")
		return
	}

	now := time.Now()
	categories := map[string]string{}
	for _, sp := range seedProducts {
		if _, ok := categories[sp.category]; ok {
			continue
		}
		c := &entity.Category{
			ID:        uuid.New().String(),
			TenantID:  demo.ID,
			Name:      sp.category,
			CreatedAt: now,
		}
		if err := categoryRepo.Create(ctx, c); err != nil {
			log.Fatal().Err(err).Str("category", sp.category).Msg("crear categoría")
		}
		categories[sp.category] = c.ID
	}

	for _, sp := range seedProducts {
		p := &entity.Product{
			ID:           uuid.New().String(),
			TenantID:     demo.ID,
			Name:         sp.name,
			Price:        decimal.NewFromInt(sp.price),
			Quantity:     sp.quantity,
			Unit:         sp.unit,
			CategoryID:   categories[sp.category],
			MinQuantity:  sp.minQuantity,
			AlertEnabled: true,
			CreatedAt:    now,
		}
		if err := productRepo.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("product", sp.name).Msg("crear producto")
		}
	}

	log.Info().
		Int("categories", len(categories)).
		Int("products", len(seedProducts)).
		Msg("siembra completada")
}
