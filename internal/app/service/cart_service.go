package service

import (
	"errors"
	"fmt"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCartProductNotFound = errors.New("product not found")

type CartService interface {
	AddToCart(userID, productID uint, quantity int) (*model.CartItem, error)
	GetCartItems(userID uint) ([]model.CartItem, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart merges the requested quantity onto the user's existing line
// for the product. The merged quantity is bounded by current stock; an
// add that would exceed it is rejected whole, never partially applied.
func (s *cartService) AddToCart(userID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding product to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	verr := NewValidationError()
	if quantity < 1 {
		verr.Add("quantity", "Quantity must be at least 1.")
		return nil, verr
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartProductNotFound
		}
		logger.Error("Failed to fetch product for cart", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(cart.ID, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
		}
	}

	merged := item.Quantity + quantity
	if merged > product.StockQuantity {
		logger.Warn("Cart add exceeds stock", map[string]interface{}{
			"product_id": productID,
			"requested":  merged,
			"stock":      product.StockQuantity,
		})
		verr.Add("quantity", "Product out of quantity.")
		return nil, verr
	}
	item.Quantity = merged

	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}

	logger.Info("Product added to cart", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   item.Quantity,
	})
	return item, nil
}

func (s *cartService) GetCartItems(userID uint) ([]model.CartItem, error) {
	cart, err := s.cartRepo.FindOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.FindItemsByCartID(cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}
