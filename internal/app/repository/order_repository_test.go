package repository

import (
	"testing"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (OrderRepository, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer"}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "Electronics", CreatedByID: user.ID}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:          "Webcam",
		Price:         80,
		StockQuantity: 4,
		CategoryID:    category.ID,
		ImageURL:      "https://cdn.example.com/webcam.png",
		CreatedByID:   user.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	return NewOrderRepository(testDB), testDB, user, product
}

func TestOrderRepository_CreateWithStock_Success(t *testing.T) {
	orderRepo, testDB, user, product := setupOrderRepositoryTest(t)

	order := &model.Order{
		UserID:          user.ID,
		ShippingAddress: "1 Delivery Lane",
		PaymentMethod:   "PayPal",
		ShippingStatus:  model.ShippingStatusPending,
	}
	short, err := orderRepo.CreateWithStock(order, []OrderLine{
		{ProductID: product.ID, Quantity: 3, Price: 240},
	})
	require.NoError(t, err)
	assert.Empty(t, short)
	assert.Equal(t, 240.0, order.TotalPrice)

	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 1, updated.StockQuantity)

	var items []model.OrderItem
	require.NoError(t, testDB.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 240.0, items[0].Price)
}

func TestOrderRepository_CreateWithStock_RollsBackOnShortStock(t *testing.T) {
	orderRepo, testDB, user, product := setupOrderRepositoryTest(t)

	order := &model.Order{
		UserID:          user.ID,
		ShippingAddress: "1 Delivery Lane",
		PaymentMethod:   "PayPal",
		ShippingStatus:  model.ShippingStatusPending,
	}
	short, err := orderRepo.CreateWithStock(order, []OrderLine{
		{ProductID: product.ID, Quantity: 10, Price: 800},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, []uint{product.ID}, short)

	// The conditional decrement matched nothing and the whole
	// transaction rolled back
	var updated model.Product
	require.NoError(t, testDB.First(&updated, product.ID).Error)
	assert.Equal(t, 4, updated.StockQuantity)

	var orders int64
	testDB.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)

	var items int64
	testDB.Model(&model.OrderItem{}).Count(&items)
	assert.Equal(t, int64(0), items)
}

func TestOrderRepository_FindWithFilter_Pagination(t *testing.T) {
	orderRepo, testDB, user, _ := setupOrderRepositoryTest(t)

	for i := 0; i < 3; i++ {
		order := &model.Order{
			UserID:          user.ID,
			ShippingAddress: "1 Delivery Lane",
			PaymentMethod:   "PayPal",
			ShippingStatus:  model.ShippingStatusPending,
		}
		require.NoError(t, testDB.Create(order).Error)
	}

	orders, total, err := orderRepo.FindWithFilter(OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 2)

	orders, total, err = orderRepo.FindWithFilter(OrderFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 1)
}
