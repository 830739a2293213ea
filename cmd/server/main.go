package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	httpapi "storefront/internal/controllers/http"
	mmysql "storefront/internal/infra/mysql"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/infra/session"
	"storefront/internal/repository"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment")
	}

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	users := mysqlrepo.NewUserRepository(db)
	products := mysqlrepo.NewProductRepository(db)
	orders := mysqlrepo.NewOrderRepository(db)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "storefront.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET environment variable is not set")
	}
	sessions := session.NewManager(secret, 72*time.Hour)

	shippingFee := services.DefaultShippingFee
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			shippingFee = parsed
		}
	}

	accounts := services.NewAccountService(users)
	catalog := services.NewCatalogService(products)
	checkout := services.NewCheckoutService(orders, publisher, shippingFee)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	catalog.SetRedisClient(redisClient)

	go func() {
		time.Sleep(5 * time.Second)
		ctx := context.Background()
		all, err := products.List(ctx, repository.ProductFilter{})
		if err != nil {
			log.Printf("Failed to list products for cache warmup: %v", err)
			return
		}
		ids := make([]uint64, 0, len(all))
		for _, p := range all {
			ids = append(ids, p.ID)
		}
		if err := catalog.WarmupCache(ctx, ids); err != nil {
			log.Printf("Failed to warm up product cache: %v", err)
		} else {
			log.Printf("Product cache warmed up (%d products)", len(ids))
		}
	}()

	handler := httpapi.NewHandler(accounts, catalog, checkout, sessions, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting storefront service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
