package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductControllerTest(t *testing.T) (*ProductController, *gorm.DB, *model.User, *model.Category) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productService := service.NewProductService(productRepo, categoryRepo)
	productController := NewProductController(productService)

	owner := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hashed-password",
		Name:         "Owner",
	}
	require.NoError(t, testDB.Create(owner).Error)

	category := &model.Category{Name: "Electronics", CreatedByID: owner.ID}
	require.NoError(t, testDB.Create(category).Error)

	gin.SetMode(gin.TestMode)
	return productController, testDB, owner, category
}

func createTestProduct(t *testing.T, testDB *gorm.DB, ownerID, categoryID uint) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          "Laptop",
		Price:         999.99,
		StockQuantity: 10,
		CategoryID:    categoryID,
		ImageURL:      "https://cdn.example.com/laptop.png",
		CreatedByID:   ownerID,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestProductController_ListProducts(t *testing.T) {
	productController, testDB, owner, category := setupProductControllerTest(t)

	for i := 0; i < 12; i++ {
		product := createTestProduct(t, testDB, owner.ID, category.ID)
		product.Name = fmt.Sprintf("Gadget %02d", i)
		require.NoError(t, testDB.Save(product).Error)
	}

	router := gin.New()
	router.GET("/products", productController.ListProducts)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	envelope := parseEnvelope(t, w)
	assert.Equal(t, "Successfully retrieved all products", envelope.Message)

	data := envelope.Data.(map[string]interface{})
	products := data["products"].([]interface{})
	assert.Len(t, products, 10)
	assert.NotNil(t, data["next"])
	assert.Nil(t, data["previous"])
}

func TestProductController_CreateProduct(t *testing.T) {
	productController, _, owner, category := setupProductControllerTest(t)

	router := gin.New()
	router.Use(setUserIDInContext(owner.ID))
	router.POST("/products", productController.CreateProduct)

	t.Run("Success", func(t *testing.T) {
		body := jsonBody(t, gin.H{
			"name":           "Laptop",
			"price":          999.99,
			"stock_quantity": 5,
			"category":       category.ID,
			"image":          "https://cdn.example.com/laptop.png",
		})
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "Product successfully created", envelope.Message)
		assert.True(t, envelope.Success)
	})

	t.Run("Invalid price yields field error", func(t *testing.T) {
		body := jsonBody(t, gin.H{
			"name":           "Freebie",
			"price":          0,
			"stock_quantity": 5,
			"category":       category.ID,
			"image":          "https://cdn.example.com/freebie.png",
		})
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		envelope := parseEnvelope(t, w)

		data := envelope.Data.(map[string]interface{})
		messages := data["price"].([]interface{})
		assert.Equal(t, "Price must be greater than zero.", messages[0])
	})
}

func TestProductController_UpdateDelete_OwnershipAsymmetry(t *testing.T) {
	productController, testDB, owner, category := setupProductControllerTest(t)
	product := createTestProduct(t, testDB, owner.ID, category.ID)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger"}
	require.NoError(t, testDB.Create(stranger).Error)

	router := gin.New()
	router.Use(setUserIDInContext(stranger.ID))
	router.PATCH("/products/:id", productController.UpdateProduct)
	router.DELETE("/products/:id", productController.DeleteProduct)

	t.Run("PATCH by non-owner is 403", func(t *testing.T) {
		body := jsonBody(t, gin.H{"price": 1.0})
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/products/%d", product.ID), body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "You do not have permission to edit this product.", envelope.Message)
	})

	t.Run("DELETE by non-owner is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "Product not found or you don't have permission to delete it.", envelope.Message)
	})

	t.Run("PATCH of absent product is 404", func(t *testing.T) {
		body := jsonBody(t, gin.H{"price": 1.0})
		req := httptest.NewRequest(http.MethodPatch, "/products/99999", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "Product not found", envelope.Message)
	})
}

func TestProductController_GetProduct(t *testing.T) {
	productController, testDB, owner, category := setupProductControllerTest(t)
	product := createTestProduct(t, testDB, owner.ID, category.ID)

	router := gin.New()
	router.GET("/products/:id", productController.GetProduct)

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "Successfully retrieved single product", envelope.Message)
	})

	t.Run("Missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/99999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		envelope := parseEnvelope(t, w)
		assert.Equal(t, "Product not found", envelope.Message)
		assert.False(t, envelope.Success)
	})
}
