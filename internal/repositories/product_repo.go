package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

var (
	// ErrProductNotFound is returned when no product matches the identifier.
	// Malformed identifiers report it too.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateBarcode is returned when the store itself rejects a write
	// because of a unique barcode index.
	ErrDuplicateBarcode = errors.New("duplicate product barcode")
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetByBarcode returns ErrProductNotFound when no product carries barcode.
	GetByBarcode(ctx context.Context, barcode int64) (*models.Product, error)
	// CreateMany stores every product in one call and fills in their IDs.
	CreateMany(ctx context.Context, products []*models.Product) error
	// Update replaces the business fields of the product with product.ID.
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the product and returns it as it was stored.
	Delete(ctx context.Context, id string) (*models.Product, error)
}
