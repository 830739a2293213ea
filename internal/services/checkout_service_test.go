package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/mocks"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FullName:      "Juan Dela Cruz",
		Address:       "123 Rizal St, Quezon City",
		Landmark:      "Near the plaza",
		Email:         "juan@example.com",
		ContactNumber: "09171234567",
	}
}

func validCardPayment() PaymentDetails {
	return PaymentDetails{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func sampleCart() domain.Cart {
	return domain.Cart{
		{ProductID: 1, Title: "Mechanical Keyboard", UnitPrice: 100, Quantity: 2},
		{ProductID: 2, Title: "Mouse Pad", UnitPrice: 50, Quantity: 1, OptionSelected: "Black"},
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint64
		shipping      ShippingInfo
		paymentMethod string
		payment       PaymentDetails
		cart          domain.Cart
		setupMocks    func(*mocks.MockOrderRepository, *mocks.MockPublisher)
		expectedError error
		check         func(*testing.T, *domain.Order)
	}{
		{
			name:          "successful card checkout computes totals",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          sampleCart(),
			setupMocks: func(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher) {
				mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					order := args.Get(1).(*domain.Order)
					order.ID = 1
				})
				mockPub.On("Publish", mock.Anything, "order.placed", mock.Anything).Return(nil).Maybe()
			},
			check: func(t *testing.T, order *domain.Order) {
				assert.Equal(t, 250.0, order.Subtotal)
				assert.Equal(t, 150.0, order.ShippingFee)
				assert.Equal(t, 400.0, order.TotalAmount)
				assert.Equal(t, domain.StatusPending, order.Status)
				assert.Len(t, order.Items, 2)
				assert.Equal(t, "Mechanical Keyboard", order.Items[0].ProductTitle)
				assert.Equal(t, 200.0, order.Items[0].Subtotal)
				assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
				assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)
			},
		},
		{
			name:          "gcash checkout accepted with 11 digits",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentGCash,
			payment:       PaymentDetails{GCashNumber: "09171234567"},
			cart:          sampleCart(),
			setupMocks: func(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher) {
				mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
				mockPub.On("Publish", mock.Anything, "order.placed", mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:          "no session never reaches the store",
			userID:        0,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: domain.ErrNoSession,
		},
		{
			name:          "card number with 15 digits rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       PaymentDetails{CardNumber: "411111111111111", ExpiryDate: "12/27", CVV: "123"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "card number with 17 digits rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentDebitCard,
			payment:       PaymentDetails{CardNumber: "41111111111111111", ExpiryDate: "12/27", CVV: "123"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "cvv must be 3 digits",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       PaymentDetails{CardNumber: "4111111111111111", ExpiryDate: "12/27", CVV: "12"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "missing expiry rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       PaymentDetails{CardNumber: "4111111111111111", CVV: "123"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "gcash number with 10 digits rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentGCash,
			payment:       PaymentDetails{GCashNumber: "0917123456"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "gcash number with 12 digits rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentGCash,
			payment:       PaymentDetails{GCashNumber: "091712345678"},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "unsupported payment method rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: "Cash On Delivery",
			payment:       PaymentDetails{},
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "missing shipping field rejected",
			userID:        7,
			shipping:      ShippingInfo{Address: "123 Rizal St", Email: "juan@example.com", ContactNumber: "09171234567"},
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "malformed shipping email rejected",
			userID:        7,
			shipping:      ShippingInfo{FullName: "Juan", Address: "123 Rizal St", Email: "not-an-email", ContactNumber: "09171234567"},
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          sampleCart(),
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "empty cart rejected",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          domain.Cart{},
			setupMocks:    func(*mocks.MockOrderRepository, *mocks.MockPublisher) {},
			expectedError: &domain.ValidationError{},
		},
		{
			name:          "store failure surfaces as generic error",
			userID:        7,
			shipping:      validShipping(),
			paymentMethod: domain.PaymentCreditCard,
			payment:       validCardPayment(),
			cart:          sampleCart(),
			setupMocks: func(mockRepo *mocks.MockOrderRepository, mockPub *mocks.MockPublisher) {
				mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("connection refused"))
			},
			expectedError: domain.ErrOrderNotProcessed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			mockPub := new(mocks.MockPublisher)
			tt.setupMocks(mockRepo, mockPub)

			service := NewCheckoutService(mockRepo, mockPub, DefaultShippingFee)
			order, err := service.PlaceOrder(context.Background(), tt.userID, tt.shipping, tt.paymentMethod, tt.payment, tt.cart)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, order)
				var verr *domain.ValidationError
				if errors.As(tt.expectedError, &verr) {
					assert.ErrorAs(t, err, &verr)
				} else {
					assert.ErrorIs(t, err, tt.expectedError)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				if tt.check != nil {
					tt.check(t, order)
				}
			}

			// Event publishing is fire-and-forget; give the goroutine a beat.
			time.Sleep(50 * time.Millisecond)

			mockRepo.AssertExpectations(t)
			mockPub.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_PlaceOrder_AcceptsCardWithSpaces(t *testing.T) {
	mockRepo := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	mockPub.On("Publish", mock.Anything, "order.placed", mock.Anything).Return(nil).Maybe()

	service := NewCheckoutService(mockRepo, mockPub, DefaultShippingFee)
	order, err := service.PlaceOrder(context.Background(), 7, validShipping(), domain.PaymentCreditCard,
		PaymentDetails{CardNumber: "4111 1111 1111 1111", ExpiryDate: "12/27", CVV: "123"}, sampleCart())

	assert.NoError(t, err)
	assert.NotNil(t, order)

	time.Sleep(50 * time.Millisecond)
}

func TestCheckoutService_PlaceOrder_RetriesOrderNumberCollision(t *testing.T) {
	mockRepo := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)

	var numbers []string
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(repository.ErrDuplicateKey).Once().Run(func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(*domain.Order).OrderNumber)
	})
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once().Run(func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(*domain.Order).OrderNumber)
	})
	mockPub.On("Publish", mock.Anything, "order.placed", mock.Anything).Return(nil).Maybe()

	service := NewCheckoutService(mockRepo, mockPub, DefaultShippingFee)
	order, err := service.PlaceOrder(context.Background(), 7, validShipping(), domain.PaymentGCash,
		PaymentDetails{GCashNumber: "09171234567"}, sampleCart())

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, numbers, 2)
	assert.NotEqual(t, numbers[0], numbers[1])

	time.Sleep(50 * time.Millisecond)
	mockRepo.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_PublishesEvent(t *testing.T) {
	mockRepo := new(mocks.MockOrderRepository)
	mockPub := new(mocks.MockPublisher)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Order).ID = 42
	})

	published := make(chan domain.OrderPlacedEvent, 1)
	mockPub.On("Publish", mock.Anything, "order.placed", mock.AnythingOfType("domain.OrderPlacedEvent")).Return(nil).Run(func(args mock.Arguments) {
		published <- args.Get(2).(domain.OrderPlacedEvent)
	})

	service := NewCheckoutService(mockRepo, mockPub, DefaultShippingFee)
	order, err := service.PlaceOrder(context.Background(), 7, validShipping(), domain.PaymentGCash,
		PaymentDetails{GCashNumber: "09171234567"}, sampleCart())

	assert.NoError(t, err)

	select {
	case evt := <-published:
		assert.Equal(t, uint64(42), evt.OrderID)
		assert.Equal(t, order.OrderNumber, evt.OrderNumber)
		assert.Equal(t, order.TotalAmount, evt.TotalAmount)
	case <-time.After(time.Second):
		t.Fatal("order.placed event was never published")
	}

	mockPub.AssertExpectations(t)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint64
		orderID       uint64
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError error
	}{
		{
			name:    "owner can read their order",
			userID:  7,
			orderID: 1,
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Order{ID: 1, UserID: 7}, nil)
			},
		},
		{
			name:    "someone else's order looks missing",
			userID:  8,
			orderID: 1,
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Order{ID: 1, UserID: 7}, nil)
			},
			expectedError: domain.ErrOrderNotFound,
		},
		{
			name:    "missing order",
			userID:  7,
			orderID: 99,
			setupMocks: func(mockRepo *mocks.MockOrderRepository) {
				mockRepo.On("FindByID", mock.Anything, uint64(99)).Return(nil, nil)
			},
			expectedError: domain.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockOrderRepository)
			tt.setupMocks(mockRepo)

			service := NewCheckoutService(mockRepo, new(mocks.MockPublisher), DefaultShippingFee)
			order, err := service.GetOrder(context.Background(), tt.userID, tt.orderID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
