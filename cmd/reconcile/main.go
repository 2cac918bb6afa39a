// Command reconcile runs one tier-reconciliation pass over all users and
// exits. It is meant to be invoked by the hosting environment's scheduler
// (daily); the process holds no timers or state of its own, so the job's
// lifecycle is entirely the scheduler's.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/roamly/roamly-backend/internal/config"
	mongorepo "github.com/roamly/roamly-backend/internal/repositories/mongodb"
	"github.com/roamly/roamly-backend/internal/services"
	"github.com/roamly/roamly-backend/pkg/mongodb"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	loyaltyService := services.NewLoyaltyService(mongorepo.NewUserRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	stats, err := loyaltyService.ReconcileAll(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	log.Printf("Reconciliation done: processed=%d upgraded=%d renewed=%d downgraded=%d swept=%d failed=%d",
		stats.Processed, stats.Upgraded, stats.Renewed, stats.Downgraded, stats.Swept, stats.Failed)
}
