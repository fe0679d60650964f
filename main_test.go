package main

import (
	"context"
	"testing"

	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProducts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository(false)
	service := services.NewProductService(repo, nil, zerolog.Nop())

	seedProducts(ctx, service, zerolog.Nop())
	products, err := service.GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
	}

	// Seeding again is rejected by the barcode check.
	seedProducts(ctx, service, zerolog.Nop())
	products, err = service.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
