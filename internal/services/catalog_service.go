package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

const productCacheTTL = time.Minute

// CatalogService is the read side of the store: product lookups and
// filtered listings. Single-product reads go through a redis cache when one
// is attached.
type CatalogService struct {
	products    repository.ProductRepository
	redisClient *redis.Client
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	cacheKey := fmt.Sprintf("product:%d", id)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	return s.products.List(ctx, filter)
}

// AddProduct stores a new catalog entry. Runtime flows never mutate
// products; this exists for the stocking side of the store.
func (s *CatalogService) AddProduct(ctx context.Context, product *domain.Product) error {
	if product.Title == "" {
		return &domain.ValidationError{Field: "title", Message: "title is required"}
	}
	if product.Price < 0 {
		return &domain.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if product.ProductType == "" {
		return &domain.ValidationError{Field: "productType", Message: "product type is required"}
	}
	product.IsActive = true
	return s.products.Create(ctx, product)
}

// RemoveProduct deletes a product that is not referenced by any order item.
func (s *CatalogService) RemoveProduct(ctx context.Context, id uint64) error {
	err := s.products.Delete(ctx, id)
	if err == nil && s.redisClient != nil {
		s.redisClient.Del(ctx, fmt.Sprintf("product:%d", id))
	}
	return err
}

// WarmupCache preloads the given products into redis concurrently.
func (s *CatalogService) WarmupCache(ctx context.Context, ids []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := s.products.FindByID(ctx, id)
			if err != nil {
				log.Printf("Failed to warm up cache for product %d: %v", id, err)
				return nil
			}
			if p != nil {
				if data, err := json.Marshal(p); err == nil {
					s.redisClient.Set(ctx, fmt.Sprintf("product:%d", id), data, 5*time.Minute)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
