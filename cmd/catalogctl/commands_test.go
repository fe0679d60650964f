package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAPI(t *testing.T) (string, *repositories.MemoryProductRepository) {
	t.Helper()
	repo := repositories.NewMemoryProductRepository(false)
	app := server.New(services.NewProductService(repo, nil, zerolog.Nop()), server.Options{}, zerolog.Nop())
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv.URL, repo
}

func run(t *testing.T, serverURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", serverURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var penFlags = []string{
	"insert",
	"--name", "Pen",
	"--price", "12,34,567",
	"--barcode", "111",
	"--description", "blue",
	"--image", "x.png",
	"--category", "Books",
	"--sku", "P1",
}

func TestCatalogctl_InsertListGet(t *testing.T) {
	url, repo := startAPI(t)

	out, err := run(t, url, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No products available.")

	out, err = run(t, url, "", penFlags...)
	require.NoError(t, err)
	assert.Contains(t, out, "Product added: Pen")
	assert.Contains(t, out, "₹ 12,34,567")

	_, err = run(t, url, "", penFlags...)
	assert.ErrorContains(t, err, "Product with this barcode already exists.")

	_, err = run(t, url, "", "insert", "--name", "Half")
	assert.ErrorContains(t, err, "*Please fill in all the required fields.")

	products, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	require.Len(t, products, 1)

	out, err = run(t, url, "", "get", products[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Pen")
	assert.Contains(t, out, "Books")

	_, err = run(t, url, "", "get", "nonexistent-id")
	assert.ErrorContains(t, err, "Product not found.")
}

func TestCatalogctl_UpdateAndDelete(t *testing.T) {
	url, repo := startAPI(t)
	_, err := run(t, url, "", penFlags...)
	require.NoError(t, err)
	products, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	id := products[0].ID

	out, err := run(t, url, "", "update", id, "--price", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "Product updated.")
	stored, err := repo.GetByID(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), stored.ProductPrice)
	assert.Equal(t, "Pen", stored.ProductName, "flags that were not given keep their value")

	_, err = run(t, url, "", "update", id, "--barcode", "12a")
	assert.ErrorContains(t, err, "barcode must be a whole number")
	stored, err = repo.GetByID(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(111), stored.ProductBarcode, "a malformed barcode is never sent")

	out, err = run(t, url, "n\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this product?")
	assert.Contains(t, out, "Cancelled.")
	_, err = repo.GetByID(t.Context(), id)
	require.NoError(t, err)

	out, err = run(t, url, "", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Pen.")
	_, err = repo.GetByID(t.Context(), id)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestCatalogctl_Categories(t *testing.T) {
	out, err := run(t, "http://127.0.0.1:1", "", "categories")
	require.NoError(t, err)
	assert.Equal(t, "Electronics\nClothing\nBooks\nBeauty\nHome Appliances\n", out)
}
