package services

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/mocks"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_GetProduct(t *testing.T) {
	tests := []struct {
		name          string
		productID     uint64
		setupMocks    func(*mocks.MockProductRepository)
		expectedError error
	}{
		{
			name:      "product found",
			productID: 1,
			setupMocks: func(mockRepo *mocks.MockProductRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Product{
					ID:          1,
					Title:       "Gaming Laptop",
					Price:       55000,
					ProductType: "laptop",
					Stocks:      3,
				}, nil)
			},
		},
		{
			name:      "product missing",
			productID: 999,
			setupMocks: func(mockRepo *mocks.MockProductRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)
			},
			expectedError: domain.ErrProductNotFound,
		},
		{
			name:      "repository error",
			productID: 1,
			setupMocks: func(mockRepo *mocks.MockProductRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(nil, errors.New("connection refused"))
			},
			expectedError: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockProductRepository)
			tt.setupMocks(mockRepo)

			service := NewCatalogService(mockRepo)
			product, err := service.GetProduct(context.Background(), tt.productID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, product)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, product)
				assert.Equal(t, tt.productID, product.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ListProducts_PassesFilterThrough(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	filter := repository.ProductFilter{ProductType: "keyboard", MinPrice: 500, MaxPrice: 5000, PriceSort: "asc"}
	mockRepo.On("List", mock.Anything, filter).Return([]domain.Product{
		{ID: 1, Title: "Budget Keyboard", Price: 800},
		{ID: 2, Title: "Mechanical Keyboard", Price: 3500},
	}, nil)

	service := NewCatalogService(mockRepo)
	products, err := service.ListProducts(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_AddProduct(t *testing.T) {
	tests := []struct {
		name           string
		product        *domain.Product
		setupMocks     func(*mocks.MockProductRepository)
		wantValidation bool
	}{
		{
			name:    "valid product stored active",
			product: &domain.Product{Title: "Webcam", Price: 1200, ProductType: "accessory"},
			setupMocks: func(mockRepo *mocks.MockProductRepository) {
				mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
			},
		},
		{
			name:           "missing title rejected",
			product:        &domain.Product{Price: 1200, ProductType: "accessory"},
			setupMocks:     func(*mocks.MockProductRepository) {},
			wantValidation: true,
		},
		{
			name:           "negative price rejected",
			product:        &domain.Product{Title: "Webcam", Price: -1, ProductType: "accessory"},
			setupMocks:     func(*mocks.MockProductRepository) {},
			wantValidation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockProductRepository)
			tt.setupMocks(mockRepo)

			service := NewCatalogService(mockRepo)
			err := service.AddProduct(context.Background(), tt.product)

			if tt.wantValidation {
				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.product.IsActive)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_RemoveProduct_RestrictedByOrders(t *testing.T) {
	mockRepo := new(mocks.MockProductRepository)
	mockRepo.On("Delete", mock.Anything, uint64(1)).Return(repository.ErrRestricted)

	service := NewCatalogService(mockRepo)
	err := service.RemoveProduct(context.Background(), 1)

	assert.ErrorIs(t, err, repository.ErrRestricted)
	mockRepo.AssertExpectations(t)
}
