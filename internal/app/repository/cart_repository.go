package repository

import (
	"errors"
	"time"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindOrCreateByUserID(userID uint) (*model.Cart, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	SaveItem(item *model.CartItem) error
	FindItemsByCartID(cartID uint) ([]model.CartItem, error)
	DeleteItemsOlderThan(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindOrCreateByUserID resolves the user's single cart, creating it on
// first use. The unique index on user_id backs the one-cart invariant.
func (r *cartRepository) FindOrCreateByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to find cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart = model.Cart{UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find cart item in database", err, map[string]interface{}{
				"cart_id":    cartID,
				"product_id": productID,
			})
		}
		return nil, err
	}
	return &item, nil
}

// SaveItem inserts a new item or persists a merged quantity.
func (r *cartRepository) SaveItem(item *model.CartItem) error {
	logger.Debug("Saving cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to save cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItemsByCartID(cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to list cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return items, nil
}

// DeleteItemsOlderThan removes cart items untouched since cutoff.
// Used by the stale-cart cleanup scheduler.
func (r *cartRepository) DeleteItemsOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("updated_at < ?", cutoff).Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete stale cart items from database", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	logger.Debug("Stale cart items deleted from database", map[string]interface{}{
		"cutoff": cutoff,
		"count":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}
