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

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	categoryService := NewCategoryService(categoryRepo)

	user := &model.User{
		Email:        "owner@example.com",
		PasswordHash: "hash",
		Name:         "Owner",
	}
	require.NoError(t, testDB.Create(user).Error)

	return categoryService, testDB, user
}

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryService, _, user := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(user.ID, CategoryInput{
		Name:        "Electronics",
		Description: "Gadgets and devices",
	})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, user.ID, category.CreatedByID)

	t.Run("Duplicate name", func(t *testing.T) {
		dup, err := categoryService.CreateCategory(user.ID, CategoryInput{Name: "Electronics"})
		assert.Nil(t, dup)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Category with this name already exists."}, verr.Fields["name"])
	})

	t.Run("Missing name", func(t *testing.T) {
		missing, err := categoryService.CreateCategory(user.ID, CategoryInput{Description: "no name"})
		assert.Nil(t, missing)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	})
}

func TestCategoryService_ListCategories_InsertionOrder(t *testing.T) {
	categoryService, _, user := setupCategoryServiceTest(t)

	for _, name := range []string{"Books", "Music", "Apparel"} {
		_, err := categoryService.CreateCategory(user.ID, CategoryInput{Name: name})
		require.NoError(t, err)
	}

	categories, err := categoryService.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Music", categories[1].Name)
	assert.Equal(t, "Apparel", categories[2].Name)
}

func TestCategoryService_UpdateCategory_Ownership(t *testing.T) {
	categoryService, testDB, user := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(user.ID, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger"}
	require.NoError(t, testDB.Create(stranger).Error)

	t.Run("Owner can update", func(t *testing.T) {
		updated, err := categoryService.UpdateCategory(category.ID, user.ID, CategoryInput{
			Description: "Updated description",
		})
		require.NoError(t, err)
		assert.Equal(t, "Updated description", updated.Description)
	})

	t.Run("Non-owner looks like missing", func(t *testing.T) {
		updated, err := categoryService.UpdateCategory(category.ID, stranger.ID, CategoryInput{
			Description: "Hijacked",
		})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		assert.Nil(t, updated)
	})

	t.Run("Absent category", func(t *testing.T) {
		updated, err := categoryService.UpdateCategory(99999, user.ID, CategoryInput{Name: "Ghost"})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
		assert.Nil(t, updated)
	})
}

func TestCategoryService_DeleteCategory_Ownership(t *testing.T) {
	categoryService, testDB, user := setupCategoryServiceTest(t)

	category, err := categoryService.CreateCategory(user.ID, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger"}
	require.NoError(t, testDB.Create(stranger).Error)

	err = categoryService.DeleteCategory(category.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, categoryService.DeleteCategory(category.ID, user.ID))

	_, err = categoryService.GetCategory(category.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
