package domain

import "time"

type OrderStatus string

const (
	StatusPending OrderStatus = "Pending"
)

// Supported payment method tags. Anything else is rejected at checkout.
const (
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
	PaymentGCash      = "G Cash"
)

type Order struct {
	ID            uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber   string      `json:"orderNumber" gorm:"size:50;not null;uniqueIndex"`
	UserID        uint64      `json:"userId" gorm:"not null;index"`
	FullName      string      `json:"fullName" gorm:"size:100;not null"`
	Address       string      `json:"address" gorm:"size:200;not null"`
	Landmark      string      `json:"landmark,omitempty" gorm:"size:100"`
	Email         string      `json:"email" gorm:"size:100;not null"`
	ContactNumber string      `json:"contactNumber" gorm:"size:20;not null"`
	PaymentMethod string      `json:"paymentMethod" gorm:"size:50;not null"`
	Subtotal      float64     `json:"subtotal" gorm:"type:decimal(10,2)"`
	ShippingFee   float64     `json:"shippingFee" gorm:"type:decimal(10,2)"`
	TotalAmount   float64     `json:"totalAmount" gorm:"type:decimal(10,2)"`
	Status        OrderStatus `json:"status" gorm:"size:20;default:'Pending'"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"autoCreateTime"`

	User  *User       `json:"-" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is an immutable snapshot of one cart line at the moment of
// checkout. Title and unit price are denormalized on purpose so later
// product edits do not rewrite order history.
type OrderItem struct {
	ID             uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID        uint64  `json:"orderId" gorm:"not null;index"`
	ProductID      uint64  `json:"productId" gorm:"not null;index"`
	ProductTitle   string  `json:"productTitle" gorm:"size:200;not null"`
	UnitPrice      float64 `json:"unitPrice" gorm:"type:decimal(10,2)"`
	Quantity       int     `json:"quantity" gorm:"not null"`
	OptionSelected string  `json:"optionSelected,omitempty" gorm:"size:100"`
	Subtotal       float64 `json:"subtotal" gorm:"type:decimal(10,2)"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID"`
}
