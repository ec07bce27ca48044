package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart is the single per-user cart. The unique index on UserID keeps
// get-or-create from ever producing a second cart for the same user.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem holds one product entry in a cart. (cart_id, product_id) is
// unique; adding the same product again merges quantities. Rows are
// hard-deleted on removal so the unique index stays reusable.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_product" json:"cart"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_product" json:"product"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
