package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Address      string         `gorm:"type:text" json:"address"`
	PhoneNumber  string         `json:"phone_number"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Categories []Category `gorm:"foreignKey:CreatedByID" json:"-"`
	Products   []Product  `gorm:"foreignKey:CreatedByID" json:"-"`
	Orders     []Order    `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
