package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

const (
	// DefaultShippingFee is the flat fee applied to every order.
	DefaultShippingFee = 150.0

	orderNumberAttempts = 3
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3}$`)
	gcashPattern      = regexp.MustCompile(`^\d{11}$`)
)

// ShippingInfo is the delivery half of the checkout form.
type ShippingInfo struct {
	FullName      string
	Address       string
	Landmark      string
	Email         string
	ContactNumber string
}

// PaymentDetails carries the method-specific form fields. Only the fields
// for the chosen method are looked at; none of them are stored.
type PaymentDetails struct {
	CardNumber  string
	ExpiryDate  string
	CVV         string
	GCashNumber string
}

// CheckoutService converts a client-held cart plus the shipping and payment
// form into one persisted order with its item snapshots.
type CheckoutService struct {
	orders      repository.OrderRepository
	publisher   rabbitmq.PublisherInterface
	shippingFee float64
}

func NewCheckoutService(orders repository.OrderRepository, publisher rabbitmq.PublisherInterface, shippingFee float64) *CheckoutService {
	if shippingFee <= 0 {
		shippingFee = DefaultShippingFee
	}
	return &CheckoutService{
		orders:      orders,
		publisher:   publisher,
		shippingFee: shippingFee,
	}
}

// PlaceOrder validates the form, snapshots the cart into an order and
// persists it with status Pending. Stock is informational only: nothing is
// checked or decremented here.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint64, shipping ShippingInfo, paymentMethod string, payment PaymentDetails, cart domain.Cart) (*domain.Order, error) {
	if userID == 0 {
		return nil, domain.ErrNoSession
	}
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}
	if err := validatePayment(paymentMethod, payment); err != nil {
		return nil, err
	}
	if err := cart.Validate(); err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal()

	order := &domain.Order{
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		FullName:      shipping.FullName,
		Address:       shipping.Address,
		Landmark:      shipping.Landmark,
		Email:         shipping.Email,
		ContactNumber: shipping.ContactNumber,
		PaymentMethod: paymentMethod,
		Subtotal:      subtotal,
		ShippingFee:   s.shippingFee,
		TotalAmount:   subtotal + s.shippingFee,
		Status:        domain.StatusPending,
		CreatedAt:     time.Now(),
		Items:         make([]domain.OrderItem, 0, len(cart)),
	}

	for _, line := range cart {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      line.ProductID,
			ProductTitle:   line.Title,
			UnitPrice:      line.UnitPrice,
			Quantity:       line.Quantity,
			OptionSelected: line.OptionSelected,
			Subtotal:       line.UnitPrice * float64(line.Quantity),
		})
	}

	if err := s.save(ctx, order); err != nil {
		log.Printf("Failed to persist order for user %d: %v", userID, err)
		return nil, domain.ErrOrderNotProcessed
	}

	go s.publishOrderPlacedEvent(context.Background(), order)

	return order, nil
}

// save retries with a fresh order number when the uniqueness constraint
// catches a collision.
func (s *CheckoutService) save(ctx context.Context, order *domain.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		err = s.orders.Save(ctx, order)
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		order.OrderNumber = generateOrderNumber()
	}
	return err
}

func (s *CheckoutService) publishOrderPlacedEvent(ctx context.Context, order *domain.Order) {
	evt := domain.OrderPlacedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "order.placed", evt); err != nil {
		log.Printf("Failed to publish order.placed event for %s: %v", order.OrderNumber, err)
	}
}

// GetOrder returns one of the user's orders with its items. Other users'
// orders are indistinguishable from missing ones.
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

func validateShipping(shipping ShippingInfo) error {
	if strings.TrimSpace(shipping.FullName) == "" {
		return &domain.ValidationError{Field: "fullName", Message: "full name is required"}
	}
	if strings.TrimSpace(shipping.Address) == "" {
		return &domain.ValidationError{Field: "address", Message: "address is required"}
	}
	if !emailPattern.MatchString(shipping.Email) {
		return &domain.ValidationError{Field: "email", Message: "invalid email address"}
	}
	if strings.TrimSpace(shipping.ContactNumber) == "" {
		return &domain.ValidationError{Field: "contactNumber", Message: "contact number is required"}
	}
	return nil
}

// validatePayment is format validation only. There is no gateway behind
// this; card and wallet numbers are never stored.
func validatePayment(method string, payment PaymentDetails) error {
	switch method {
	case domain.PaymentCreditCard, domain.PaymentDebitCard:
		number := strings.ReplaceAll(payment.CardNumber, " ", "")
		if !cardNumberPattern.MatchString(number) {
			return &domain.ValidationError{Field: "cardNumber", Message: "card number must be 16 digits"}
		}
		if !cvvPattern.MatchString(payment.CVV) {
			return &domain.ValidationError{Field: "cvv", Message: "CVV must be 3 digits"}
		}
		if strings.TrimSpace(payment.ExpiryDate) == "" {
			return &domain.ValidationError{Field: "expiryDate", Message: "expiry date is required"}
		}
	case domain.PaymentGCash:
		number := strings.ReplaceAll(payment.GCashNumber, " ", "")
		if !gcashPattern.MatchString(number) {
			return &domain.ValidationError{Field: "gcashNumber", Message: "GCash number must be 11 digits"}
		}
	default:
		return &domain.ValidationError{Field: "paymentMethod", Message: "unsupported payment method"}
	}
	return nil
}

// generateOrderNumber derives a human-readable order number from a random
// token rather than the wall clock, so two checkouts in the same tick
// cannot collide.
func generateOrderNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + token[:12]
}
