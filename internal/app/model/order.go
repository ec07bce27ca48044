package model

import (
	"time"

	"gorm.io/gorm"
)

type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "pending"
	ShippingStatusShipped   ShippingStatus = "shipped"
	ShippingStatusDelivered ShippingStatus = "delivered"
	ShippingStatusCancelled ShippingStatus = "cancelled"
)

// Valid reports whether s is one of the known shipping statuses.
func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusShipped, ShippingStatusDelivered, ShippingStatusCancelled:
		return true
	}
	return false
}

// Payment methods accepted at checkout.
var PaymentMethods = []string{"Credit Card", "PayPal", "Cash on Delivery"}

type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	ShippingAddress string         `gorm:"not null" json:"shipping_address"`
	PaymentMethod   string         `gorm:"type:varchar(50);not null" json:"payment_method"`
	TotalPrice      float64        `gorm:"not null;default:0" json:"total_price"`
	ShippingStatus  ShippingStatus `gorm:"type:varchar(10);default:'pending'" json:"shipping_status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is immutable after creation. Price is the line total
// captured at order time (unit price * quantity), not a live reference.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	ProductID uint      `gorm:"not null;index" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
