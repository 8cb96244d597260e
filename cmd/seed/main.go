package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/config"
	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/observability"
	"github.com/spec-kit/complaint-console/internal/persistence"
	"github.com/spec-kit/complaint-console/internal/repository"
)

type seedCategory struct {
	key         string
	description string
	slaHours    int
}

// Fixed ids keep the console form selectors stable across environments.
var seedCategories = []seedCategory{
	{"technical_support", "Issues with the platform, app or integrations", 24},
	{"product", "Product defects, missing features or quality issues", 48},
	{"service_quality", "Dissatisfaction with the service provided", 72},
	{"provider_conduct", "Behaviour or conduct of a service provider", 72},
	{"access_eligibility", "Problems accessing services or eligibility disputes", 48},
	{"privacy_concern", "Data handling and privacy related complaints", 24},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.Logger.Service += "-seed"
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	categories := repository.NewCategoryRepository(pg.PoolHandle())
	for _, seed := range seedCategories {
		description := seed.description
		category := &domain.Category{
			ID:          domain.SeededCategoryIDs[seed.key],
			Name:        domain.CategoryLabels[seed.key],
			Description: &description,
			SLAHours:    seed.slaHours,
		}
		if err := categories.Upsert(ctx, category); err != nil {
			logger.Fatal("failed to seed category",
				zap.String("name", category.Name),
				zap.Error(err))
		}
		logger.Info("seeded category",
			zap.String("id", category.ID),
			zap.String("name", category.Name))
	}

	logger.Info("seeding complete", zap.Int("categories", len(seedCategories)))
}
