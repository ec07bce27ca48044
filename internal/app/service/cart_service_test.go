package service

import (
	"testing"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "shopper@example.com",
		PasswordHash: "hash",
		Name:         "Shopper",
	}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Electronics", CreatedByID: user.ID}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:          "Headphones",
		Price:         59.99,
		StockQuantity: 5,
		CategoryID:    category.ID,
		ImageURL:      "https://cdn.example.com/headphones.png",
		CreatedByID:   user.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	return cartService, testDB, user, product
}

func TestCartService_AddToCart_CreatesCartOnFirstUse(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	var carts []model.Cart
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&carts).Error)
	require.Len(t, carts, 1)
	assert.Equal(t, carts[0].ID, item.CartID)
}

func TestCartService_AddToCart_MergesExistingLine(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	item, err := cartService.AddToCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	// Still a single row for the product
	var count int64
	testDB.Model(&model.CartItem{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddToCart_RejectsOverStock(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 4)
	require.NoError(t, err)

	// 4 in cart + 2 requested > 5 in stock; nothing is partially added
	item, err := cartService.AddToCart(user.ID, product.ID, 2)
	assert.Nil(t, item)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Product out of quantity.", verr.First())

	var stored model.CartItem
	require.NoError(t, testDB.Where("product_id = ?", product.ID).First(&stored).Error)
	assert.Equal(t, 4, stored.Quantity)
}

func TestCartService_AddToCart_UnknownProduct(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, 99999, 1)
	assert.ErrorIs(t, err, ErrCartProductNotFound)
	assert.Nil(t, item)
}

func TestCartService_AddToCart_InvalidQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 0)
	assert.Nil(t, item)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "quantity")
}

func TestCartService_GetCartItems(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	second := &model.Product{
		Name:          "Speaker",
		Price:         30,
		StockQuantity: 3,
		CategoryID:    product.CategoryID,
		ImageURL:      "https://cdn.example.com/speaker.png",
		CreatedByID:   user.ID,
	}
	require.NoError(t, testDB.Create(second).Error)

	_, err := cartService.AddToCart(user.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 2)
	require.NoError(t, err)

	items, err := cartService.GetCartItems(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
