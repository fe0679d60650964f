package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Products are listed in insertion order.
type MemoryProductRepository struct {
	products      map[string]models.Product
	order         []string
	uniqueBarcode bool
	mu            sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
// With uniqueBarcode set, CreateMany and Update reject a barcode that another
// stored product already carries with ErrDuplicateBarcode, the way a unique
// index would.
func NewMemoryProductRepository(uniqueBarcode bool) *MemoryProductRepository {
	return &MemoryProductRepository{
		products:      make(map[string]models.Product),
		uniqueBarcode: uniqueBarcode,
	}
}

// GetAll returns all products.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		productList = append(productList, r.products[id])
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// GetByBarcode returns the first stored product carrying barcode.
func (r *MemoryProductRepository) GetByBarcode(_ context.Context, barcode int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if product := r.products[id]; product.ProductBarcode == barcode {
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with barcode %d: %w", barcode, ErrProductNotFound)
}

// CreateMany adds all products or none of them.
func (r *MemoryProductRepository) CreateMany(_ context.Context, products []*models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.uniqueBarcode {
		seen := make(map[int64]struct{}, len(r.products)+len(products))
		for _, p := range r.products {
			seen[p.ProductBarcode] = struct{}{}
		}
		for _, p := range products {
			if _, dup := seen[p.ProductBarcode]; dup {
				return fmt.Errorf("barcode %d: %w", p.ProductBarcode, ErrDuplicateBarcode)
			}
			seen[p.ProductBarcode] = struct{}{}
		}
	}

	now := time.Now()
	for _, product := range products {
		if product.ID == "" {
			product.ID = uuid.New().String()
		}
		product.CreatedAt = now
		r.products[product.ID] = *product
		r.order = append(r.order, product.ID)
	}
	return nil
}

// Update replaces the business fields of an existing product.
func (r *MemoryProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrProductNotFound)
	}
	if r.uniqueBarcode {
		for id, other := range r.products {
			if id != product.ID && other.ProductBarcode == product.ProductBarcode {
				return fmt.Errorf("barcode %d: %w", product.ProductBarcode, ErrDuplicateBarcode)
			}
		}
	}
	stored.ApplyFields(*product)
	r.products[product.ID] = stored
	*product = stored
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	for i, storedID := range r.order {
		if storedID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &product, nil
}
