package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// EventPublisher receives product lifecycle events after successful writes.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	events   EventPublisher
	logger   zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
		events:   events,
		logger:   logger.With().Str("component", "product_service").Logger(),
	}
}

// InsertProducts validates and stores a batch of drafts. Either every draft
// is stored or none is.
//
// Every draft is validated before the store is consulted. Barcode uniqueness
// is checked against stored products and against earlier drafts of the same
// batch. The lookup and the insert are separate store calls, so two
// concurrent inserts of the same new barcode can both pass unless the store
// enforces a unique index.
func (s *ProductService) InsertProducts(ctx context.Context, drafts []models.Product) ([]models.Product, error) {
	if len(drafts) == 0 {
		return nil, ErrEmptyBatch
	}

	for i := range drafts {
		if err := s.validateDraft(i, drafts[i]); err != nil {
			return nil, err
		}
	}

	seen := make(map[int64]struct{}, len(drafts))
	for _, draft := range drafts {
		if _, dup := seen[draft.ProductBarcode]; dup {
			return nil, &ConflictError{Barcode: draft.ProductBarcode}
		}
		seen[draft.ProductBarcode] = struct{}{}

		_, err := s.repo.GetByBarcode(ctx, draft.ProductBarcode)
		switch {
		case err == nil:
			return nil, &ConflictError{Barcode: draft.ProductBarcode}
		case !errors.Is(err, repositories.ErrProductNotFound):
			return nil, fmt.Errorf("failed to check barcode %d: %w", draft.ProductBarcode, err)
		}
	}

	toCreate := make([]*models.Product, len(drafts))
	for i := range drafts {
		draft := drafts[i]
		draft.ID = ""
		toCreate[i] = &draft
	}
	if err := s.repo.CreateMany(ctx, toCreate); err != nil {
		if errors.Is(err, repositories.ErrDuplicateBarcode) {
			conflict := &ConflictError{}
			if len(toCreate) == 1 {
				conflict.Barcode = toCreate[0].ProductBarcode
			}
			return nil, conflict
		}
		return nil, err
	}

	created := make([]models.Product, len(toCreate))
	for i, p := range toCreate {
		created[i] = *p
		s.publish(models.ProductCreated, *p)
	}
	s.logger.Info().Int("count", len(created)).Msg("products inserted")
	return created, nil
}

func (s *ProductService) validateDraft(index int, draft models.Product) error {
	err := s.validate.Struct(draft)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate product %d: %w", index, err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = e.Tag()
	}
	return &ValidationError{Index: index, Fields: fields}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProduct replaces all seven business fields of the product with id.
// Fields are stored as given; neither presence nor barcode uniqueness is
// checked again.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, fields models.Product) (*models.Product, error) {
	product := &models.Product{ID: id}
	product.ApplyFields(fields)
	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateBarcode) {
			return nil, &ConflictError{Barcode: fields.ProductBarcode}
		}
		return nil, err
	}
	s.publish(models.ProductUpdated, *product)
	return product, nil
}

// DeleteProduct deletes a product by its ID and returns what was removed.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(models.ProductDeleted, *product)
	return product, nil
}

func (s *ProductService) publish(eventType models.ProductEventType, product models.Product) {
	if s.events == nil {
		return
	}
	event := models.ProductEvent{Type: eventType, Product: product, OccurredAt: time.Now().UTC()}
	if err := s.events.PublishProductEvent(event); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Str("product_id", product.ID).
			Msg("failed to publish product event")
	}
}
