package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It runs on the SQLite and PostgreSQL drivers.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// EnsureUniqueBarcode creates a unique index on the barcode column, so the
// database rejects duplicates that slip past the check-then-insert.
func (r *GORMProductRepository) EnsureUniqueBarcode() error {
	err := r.db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_products_unique_barcode ON products (product_barcode)").Error
	if err != nil {
		return fmt.Errorf("failed to create unique barcode index: %w", err)
	}
	return nil
}

// GetAll retrieves all products from the database in insertion order.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx), "id", id)
}

// GetByBarcode retrieves the product carrying barcode.
func (r *GORMProductRepository) GetByBarcode(ctx context.Context, barcode int64) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx), "product_barcode", barcode)
}

func (r *GORMProductRepository) first(db *gorm.DB, column string, value any) (*models.Product, error) {
	var product models.Product
	if err := db.Where(column+" = ?", value).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with %s %v: %w", column, value, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by %s %v: %w", column, value, err)
	}
	return &product, nil
}

// CreateMany inserts all products in a single transaction.
func (r *GORMProductRepository) CreateMany(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now()
	for i, product := range products {
		if product.ID == "" {
			product.ID = uuid.New().String()
		}
		// Spread timestamps so a batch keeps its order when listed.
		product.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&products).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create products: %w", ErrDuplicateBarcode)
		}
		return fmt.Errorf("failed to create products: %w", err)
	}
	return nil
}

// Update replaces the business fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := r.first(tx, "id", product.ID)
		if err != nil {
			return err
		}
		stored.ApplyFields(*product)
		if err := tx.Save(stored).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("failed to update product: %w", ErrDuplicateBarcode)
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		*product = *stored
		return nil
	})
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	var deleted *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stored, err := r.first(tx, "id", id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		deleted = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
