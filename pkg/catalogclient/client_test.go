package catalogclient_test

import (
	"net/http/httptest"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/server"
	"catalog/internal/services"
	"catalog/pkg/catalogclient"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer runs the catalog API over an in-memory store.
func newTestServer(t *testing.T) *catalogclient.Client {
	t.Helper()
	service := services.NewProductService(repositories.NewMemoryProductRepository(false), nil, zerolog.Nop())
	app := server.New(service, server.Options{}, zerolog.Nop())
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return catalogclient.New(srv.URL + "/")
}

func TestClient_EndToEnd(t *testing.T) {
	client := newTestServer(t)

	collection := catalogclient.NewCollectionView(client)
	assert.Equal(t, catalogclient.StateEmpty, collection.Load())
	assert.Equal(t, "No products available.", collection.Message())

	form := filledForm()
	created, err := form.Submit(client)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)

	again := filledForm()
	_, err = again.Submit(client)
	assert.ErrorIs(t, err, catalogclient.ErrDuplicateBarcode)
	assert.Equal(t, "Product with this barcode already exists.", again.Message())

	batch, err := client.Insert(
		models.Product{ProductName: "Ink", ProductPrice: 50, ProductBarcode: 222, ProductDescription: "black", ProductImage: "i.png", ProductCategory: "Books", ProductSKU: "I1"},
		models.Product{ProductName: "Lamp", ProductPrice: 900, ProductBarcode: 333, ProductDescription: "desk", ProductImage: "l.png", ProductCategory: "Home Appliances", ProductSKU: "L1"},
	)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	assert.Equal(t, catalogclient.StateReady, collection.Load())
	products := collection.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "Pen", products[0].ProductName)
	assert.Equal(t, int64(1234567), products[0].ProductPrice)

	detail := catalogclient.NewDetailView(client)
	assert.Equal(t, catalogclient.StateReady, detail.Load(created[0].ID))
	assert.Equal(t, "P1", detail.Product().ProductSKU)
	assert.Equal(t, catalogclient.StateNotFound, detail.Load("nonexistent-id"))

	row := catalogclient.NewRowEditor(client, collection, products[0])
	edit, err := row.Edit()
	require.NoError(t, err)
	edit.SetPrice("1,500")
	updated, err := row.Save()
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.ProductPrice)
	assert.Equal(t, created[0].ID, updated.ID)

	_, err = row.RequestDelete()
	require.NoError(t, err)
	require.NoError(t, row.ConfirmDelete())
	assert.Len(t, collection.Products(), 2)

	_, err = client.Get(created[0].ID)
	assert.ErrorIs(t, err, catalogclient.ErrNotFound)
	_, err = client.Delete(created[0].ID)
	assert.ErrorIs(t, err, catalogclient.ErrNotFound)
}

func TestClient_ConnectionFailure(t *testing.T) {
	client := catalogclient.New("http://127.0.0.1:1")

	view := catalogclient.NewCollectionView(client)
	assert.Equal(t, catalogclient.StateError, view.Load())
	assert.Equal(t, "An error occurred. Please try again later.", view.Message())

	form := filledForm()
	_, err := form.Submit(client)
	assert.Error(t, err)
	assert.Equal(t, "An error occurred. Please try again later.", form.Message())
}

func TestClient_InsertNothing(t *testing.T) {
	_, err := catalogclient.New("").Insert()
	assert.Error(t, err)
}
