package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
)

// Store-level failures the services branch on. Implementations translate
// driver errors into these before returning.
var (
	// ErrDuplicateKey reports a uniqueness violation (username, email or
	// order number).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrRestricted reports a delete rejected because dependent rows still
	// reference the target.
	ErrRestricted = errors.New("row is referenced by dependent rows")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	ProductType string
	MinPrice    float64
	MaxPrice    float64
	PriceSort   string // "asc", "desc" or empty
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Delete(ctx context.Context, id uint64) error
}

type OrderRepository interface {
	// Save persists the order and all of its items as one unit.
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
}
