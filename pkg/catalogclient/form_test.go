package catalogclient_test

import (
	"errors"
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/pkg/catalogclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock implementation of catalogclient.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Insert(drafts ...models.Product) ([]models.Product, error) {
	args := m.Called(drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockAPI) List() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockAPI) Get(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockAPI) Update(id string, product models.Product) (*models.Product, error) {
	args := m.Called(id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockAPI) Delete(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func filledForm() *catalogclient.ProductForm {
	f := catalogclient.NewProductForm()
	f.SetName("Pen")
	f.SetPrice("1234567")
	f.SetBarcode("111")
	f.SetDescription("blue")
	f.SetImage("x.png")
	f.SetCategory("Books")
	f.SetSKU("P1")
	return f
}

func TestProductForm_PriceDisplayAndDraft(t *testing.T) {
	f := filledForm()
	assert.Equal(t, "12,34,567", f.Values().Price)

	draft, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), draft.ProductPrice)
	assert.Equal(t, int64(111), draft.ProductBarcode)

	f.SetPrice("12,34,5678")
	assert.Equal(t, "1,23,45,678", f.Values().Price)

	f.SetPrice("")
	assert.Empty(t, f.Values().Price)
}

func TestProductForm_BarcodeTruncated(t *testing.T) {
	f := catalogclient.NewProductForm()
	f.SetBarcode("12345678901234")
	assert.Equal(t, "123456789012", f.Values().Barcode)
}

func TestProductForm_Validate(t *testing.T) {
	f := filledForm()
	assert.NoError(t, f.Validate())
	assert.Empty(t, f.Message())

	f.SetSKU("   ")
	assert.ErrorIs(t, f.Validate(), catalogclient.ErrRequiredFields)
	assert.Equal(t, "*Please fill in all the required fields.", f.Message())

	f = filledForm()
	f.SetBarcode("12ab")
	err := f.Validate()
	assert.ErrorIs(t, err, catalogclient.ErrRequiredFields)
	assert.ErrorIs(t, err, catalogclient.ErrInvalidBarcode)
	assert.Equal(t, "*Please fill in all the required fields.", f.Message())

	f.SetBarcode("")
	err = f.Validate()
	assert.ErrorIs(t, err, catalogclient.ErrRequiredFields)
	assert.NotErrorIs(t, err, catalogclient.ErrInvalidBarcode, "an empty barcode is missing, not malformed")
}

func TestProductForm_Submit(t *testing.T) {
	t.Run("success resets the form", func(t *testing.T) {
		api := new(MockAPI)
		f := filledForm()
		api.On("Insert", mock.MatchedBy(func(drafts []models.Product) bool {
			return len(drafts) == 1 && drafts[0].ProductPrice == 1234567
		})).Return([]models.Product{{ID: "1", ProductName: "Pen"}}, nil).Once()

		created, err := f.Submit(api)
		require.NoError(t, err)
		assert.Equal(t, "1", created[0].ID)
		assert.Equal(t, catalogclient.FormValues{}, f.Values())
		assert.Empty(t, f.Message())
		assert.False(t, f.Submitting())
		api.AssertExpectations(t)
	})

	t.Run("incomplete form never reaches the api", func(t *testing.T) {
		api := new(MockAPI)
		f := filledForm()
		f.SetName("")

		_, err := f.Submit(api)
		assert.ErrorIs(t, err, catalogclient.ErrRequiredFields)
		assert.Equal(t, catalogclient.MsgRequiredFields, f.Message())
		api.AssertNotCalled(t, "Insert", mock.Anything)
	})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"duplicate barcode", fmt.Errorf("%w: Product with barcode 111 is already added.", catalogclient.ErrDuplicateBarcode), "Product with this barcode already exists."},
		{"server error", &catalogclient.StatusError{Code: 500}, "Something went wrong. Please try again."},
		{"connection refused", errors.New("dial tcp: connection refused"), "An error occurred. Please try again later."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := new(MockAPI)
			f := filledForm()
			api.On("Insert", mock.Anything).Return(nil, tc.err).Once()

			_, err := f.Submit(api)
			assert.Error(t, err)
			assert.Equal(t, tc.want, f.Message())
			assert.Equal(t, "Pen", f.Values().Name, "fields are kept for another try")
			assert.False(t, f.Submitting())
		})
	}
}

// blockingAPI holds Insert until release is closed.
type blockingAPI struct {
	MockAPI
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Insert(drafts ...models.Product) ([]models.Product, error) {
	close(b.started)
	<-b.release
	return drafts, nil
}

func TestProductForm_SubmitInFlight(t *testing.T) {
	api := &blockingAPI{started: make(chan struct{}), release: make(chan struct{})}
	f := filledForm()

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(api)
		done <- err
	}()

	<-api.started
	assert.True(t, f.Submitting())
	_, err := f.Submit(api)
	assert.ErrorIs(t, err, catalogclient.ErrSubmitInFlight)

	close(api.release)
	assert.NoError(t, <-done)
	assert.False(t, f.Submitting())
}
