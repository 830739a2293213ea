package http

import "storefront/internal/domain"

type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type AddProductRequest struct {
	Title       string  `json:"title" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
	ProductType string  `json:"productType" binding:"required"`
	Stocks      int     `json:"stocks"`
	Options     string  `json:"options"`
}

// CheckoutRequest is the payment form plus the serialized cart the client
// has been holding in local storage.
type CheckoutRequest struct {
	FullName      string `json:"fullName"`
	Address       string `json:"address"`
	Landmark      string `json:"landmark"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	PaymentMethod string `json:"paymentMethod"`

	CardNumber  string `json:"cardNumber"`
	ExpiryDate  string `json:"expiryDate"`
	CVV         string `json:"cvv"`
	GCashNumber string `json:"gcashNumber"`

	Items []CartLine `json:"items"`
}

type CartLine struct {
	ProductID      uint64  `json:"productId"`
	Title          string  `json:"title"`
	UnitPrice      float64 `json:"unitPrice"`
	OptionSelected string  `json:"optionSelected"`
	Quantity       int     `json:"quantity"`
	ImageURL       string  `json:"imageUrl"`
}

type CheckoutResponse struct {
	OrderID     uint64  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shippingFee"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
}
