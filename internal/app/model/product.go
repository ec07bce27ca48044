package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	CategoryID    uint           `gorm:"not null;index" json:"category"`
	ImageURL      string         `json:"image"`
	CreatedByID   uint           `gorm:"not null;index" json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category   Category    `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedBy  User        `gorm:"foreignKey:CreatedByID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
