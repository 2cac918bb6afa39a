package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/roamly/roamly-backend/api/routes"
	"github.com/roamly/roamly-backend/internal/config"
	"github.com/roamly/roamly-backend/internal/handlers"
	"github.com/roamly/roamly-backend/internal/repositories"
	mongorepo "github.com/roamly/roamly-backend/internal/repositories/mongodb"
	"github.com/roamly/roamly-backend/internal/services"
	"github.com/roamly/roamly-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments configure through the environment
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

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var rewardRepo repositories.RewardRepository = mongorepo.NewRewardRepository(db)
	var orderRepo repositories.OrderRepository = mongorepo.NewOrderRepository(db)
	var productRepo repositories.ProductRepository = mongorepo.NewProductRepository(db)
	var metaRepo repositories.MetaRepository = mongorepo.NewMetaRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	loyaltyService := services.NewLoyaltyService(userRepo)
	rewardService := services.NewRewardService(rewardRepo, userRepo, productRepo, mongoClient)
	orderService := services.NewOrderService(orderRepo, userRepo, productRepo, metaRepo, mongoClient)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		RewardHandler:  handlers.NewRewardHandler(rewardService),
		OrderHandler:   handlers.NewOrderHandler(orderService),
		LoyaltyHandler: handlers.NewLoyaltyHandler(loyaltyService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
