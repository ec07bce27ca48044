package main

import (
	"errors"
	"flag"
	"strconv"

	"github.com/stephens-stores/backend/config"
	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stephens-stores/backend/pkg/logger"
	"github.com/stephens-stores/backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// seed imports categories and products from an xlsx workbook. The
// workbook needs a "Categories" sheet (name, description) and a
// "Products" sheet (name, description, price, stock, category, image),
// both with a header row.
func main() {
	var (
		path       = flag.String("file", "seed.xlsx", "path to the seed workbook")
		ownerEmail = flag.String("owner", "seed@stephens-stores.com", "email of the catalog owner account")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:  "info",
		Format: "console",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	owner, err := resolveOwner(userRepo, *ownerEmail)
	if err != nil {
		logger.Fatal("Failed to resolve owner account", err)
	}

	workbook, err := excelize.OpenFile(*path)
	if err != nil {
		logger.Fatal("Failed to open seed workbook", err, map[string]interface{}{
			"file": *path,
		})
	}
	defer workbook.Close()

	categories, err := seedCategories(workbook, categoryRepo, owner.ID)
	if err != nil {
		logger.Fatal("Failed to seed categories", err)
	}

	products, err := seedProducts(workbook, productRepo, categoryRepo, owner.ID)
	if err != nil {
		logger.Fatal("Failed to seed products", err)
	}

	logger.Info("Seeding finished", map[string]interface{}{
		"categories": categories,
		"products":   products,
	})
}

func resolveOwner(userRepo repository.UserRepository, email string) (*model.User, error) {
	owner, err := userRepo.FindByEmail(email)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword("seed-only-account")
	if err != nil {
		return nil, err
	}
	owner = &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Catalog Seeder",
	}
	if err := userRepo.Create(owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func seedCategories(workbook *excelize.File, categoryRepo repository.CategoryRepository, ownerID uint) (int, error) {
	rows, err := workbook.GetRows("Categories")
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}

		exists, err := categoryRepo.ExistsByName(row[0])
		if err != nil {
			return count, err
		}
		if exists {
			continue
		}

		category := &model.Category{
			Name:        row[0],
			CreatedByID: ownerID,
		}
		if len(row) > 1 {
			category.Description = row[1]
		}
		if err := categoryRepo.Create(category); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func seedProducts(
	workbook *excelize.File,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	ownerID uint,
) (int, error) {
	rows, err := workbook.GetRows("Products")
	if err != nil {
		return 0, err
	}

	categories, err := categoryRepo.FindAll()
	if err != nil {
		return 0, err
	}
	byName := make(map[string]uint, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	count := 0
	for i, row := range rows {
		if i == 0 || len(row) < 6 || row[0] == "" {
			continue
		}

		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil || price <= 0 {
			logger.Warn("Skipping product row with bad price", map[string]interface{}{
				"row":  i + 1,
				"name": row[0],
			})
			continue
		}
		stock, err := strconv.Atoi(row[3])
		if err != nil || stock < 0 {
			logger.Warn("Skipping product row with bad stock", map[string]interface{}{
				"row":  i + 1,
				"name": row[0],
			})
			continue
		}
		categoryID, ok := byName[row[4]]
		if !ok {
			logger.Warn("Skipping product row with unknown category", map[string]interface{}{
				"row":      i + 1,
				"name":     row[0],
				"category": row[4],
			})
			continue
		}

		product := &model.Product{
			Name:          row[0],
			Description:   row[1],
			Price:         price,
			StockQuantity: stock,
			CategoryID:    categoryID,
			ImageURL:      row[5],
			CreatedByID:   ownerID,
		}
		if err := productRepo.Create(product); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
