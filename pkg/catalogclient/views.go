package catalogclient

import (
	"errors"
	"sync"

	"catalog/internal/models"
)

// ViewState is the lifecycle of a view that loads remote data.
type ViewState int

// View states.
const (
	StateLoading ViewState = iota
	StateError
	StateEmpty
	StateNotFound
	StateReady
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateNotFound:
		return "not-found"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Messages shown by the views.
const (
	MsgLoadingProducts = "Loading products..."
	MsgLoadingDetails  = "Loading product details..."
	MsgFetchFailed     = "Failed to fetch products."
	MsgNoProducts      = "No products available."
	MsgAddProduct      = "Add a Product"
	MsgNotFound        = "Product not found."
)

// CollectionView is the product list screen.
type CollectionView struct {
	api API

	mu       sync.RWMutex
	state    ViewState
	products []models.Product
	message  string
}

// NewCollectionView returns a view in the loading state.
func NewCollectionView(api API) *CollectionView {
	return &CollectionView{api: api, state: StateLoading, message: MsgLoadingProducts}
}

// Load fetches the list and moves the view to error, empty or ready.
func (v *CollectionView) Load() ViewState {
	v.mu.Lock()
	v.state = StateLoading
	v.message = MsgLoadingProducts
	v.mu.Unlock()

	products, err := v.api.List()

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case err != nil:
		v.state = StateError
		v.products = nil
		v.message = loadMessage(err)
	case len(products) == 0:
		v.state = StateEmpty
		v.products = []models.Product{}
		v.message = MsgNoProducts
	default:
		v.state = StateReady
		v.products = products
		v.message = ""
	}
	return v.state
}

// State is the view's current state.
func (v *CollectionView) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Message is the text to show for the current state, if any.
func (v *CollectionView) Message() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.message
}

// Products returns a copy of the loaded list.
func (v *CollectionView) Products() []models.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.Product, len(v.products))
	copy(out, v.products)
	return out
}

// DetailView is the single product screen.
type DetailView struct {
	api API

	mu      sync.RWMutex
	state   ViewState
	product *models.Product
	message string
}

// NewDetailView returns a view in the loading state.
func NewDetailView(api API) *DetailView {
	return &DetailView{api: api, state: StateLoading, message: MsgLoadingDetails}
}

// Load fetches one product and moves the view to error, not-found or ready.
func (v *DetailView) Load(id string) ViewState {
	v.mu.Lock()
	v.state = StateLoading
	v.message = MsgLoadingDetails
	v.mu.Unlock()

	product, err := v.api.Get(id)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.product = nil
	switch {
	case errors.Is(err, ErrNotFound):
		v.state = StateNotFound
		v.message = MsgNotFound
	case err != nil:
		v.state = StateError
		v.message = loadMessage(err)
	default:
		v.state = StateReady
		v.product = product
		v.message = ""
	}
	return v.state
}

// State is the view's current state.
func (v *DetailView) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Message is the text to show for the current state, if any.
func (v *DetailView) Message() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.message
}

// Product returns the loaded product, or nil unless the view is ready.
func (v *DetailView) Product() *models.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.product == nil {
		return nil
	}
	p := *v.product
	return &p
}

// loadMessage distinguishes an API answer from a transport failure.
func loadMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return MsgFetchFailed
	}
	return MsgTryAgainLater
}
