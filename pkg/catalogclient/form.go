package catalogclient

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"catalog/internal/models"
)

// Messages shown by ProductForm.
const (
	MsgRequiredFields   = "*Please fill in all the required fields."
	MsgBarcodeExists    = "Product with this barcode already exists."
	MsgSomethingWrong   = "Something went wrong. Please try again."
	MsgTryAgainLater    = "An error occurred. Please try again later."
	maxBarcodeInputSize = 12
)

var (
	// ErrRequiredFields is returned when a draft is incomplete.
	ErrRequiredFields = errors.New("required fields missing")
	// ErrSubmitInFlight is returned when Submit is called before the previous
	// submission finished.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrInvalidBarcode is returned when the barcode field holds something
	// other than a whole number. It always wraps ErrRequiredFields too.
	ErrInvalidBarcode = errors.New("barcode must be a whole number")
)

// FormValues is what a form currently displays.
type FormValues struct {
	Name        string
	Price       string
	Barcode     string
	Description string
	Image       string
	Category    string
	SKU         string
}

// ProductForm holds the state of a product entry form. The zero value is an
// empty form ready for input.
type ProductForm struct {
	mu         sync.Mutex
	values     FormValues
	price      int64
	message    string
	submitting bool
}

// NewProductForm returns an empty form.
func NewProductForm() *ProductForm {
	return &ProductForm{}
}

// NewProductFormFrom returns a form seeded with the fields of p.
func NewProductFormFrom(p models.Product) *ProductForm {
	f := &ProductForm{}
	f.SetName(p.ProductName)
	f.SetPrice(strconv.FormatInt(p.ProductPrice, 10))
	f.SetBarcode(strconv.FormatInt(p.ProductBarcode, 10))
	f.SetDescription(p.ProductDescription)
	f.SetImage(p.ProductImage)
	f.SetCategory(p.ProductCategory)
	f.SetSKU(p.ProductSKU)
	return f
}

// SetName sets the product name.
func (f *ProductForm) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Name = v
}

// SetPrice keeps only the digits of input and displays them grouped.
func (f *ProductForm) SetPrice(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	digits, n := ParseDigits(input)
	f.price = n
	if digits == "" {
		f.values.Price = ""
		return
	}
	f.values.Price = FormatIndianNumber(n)
}

// SetBarcode keeps at most the first 12 characters of input.
func (f *ProductForm) SetBarcode(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := []rune(input); len(r) > maxBarcodeInputSize {
		input = string(r[:maxBarcodeInputSize])
	}
	f.values.Barcode = input
}

// SetDescription sets the description.
func (f *ProductForm) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Description = v
}

// SetImage sets the image URL.
func (f *ProductForm) SetImage(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Image = v
}

// SetCategory sets the category.
func (f *ProductForm) SetCategory(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.Category = v
}

// SetSKU sets the SKU.
func (f *ProductForm) SetSKU(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values.SKU = v
}

// Reset clears every field and the message.
func (f *ProductForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = FormValues{}
	f.price = 0
	f.message = ""
}

// Values returns the fields as currently displayed.
func (f *ProductForm) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Message is the feedback line for the last Validate or Submit.
func (f *ProductForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Submitting reports whether a Submit call is in flight.
func (f *ProductForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Validate applies the same required-field rule as the API.
func (f *ProductForm) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.draftLocked(); err != nil {
		f.message = MsgRequiredFields
		return err
	}
	f.message = ""
	return nil
}

// Draft converts the form into a product payload with the raw price.
func (f *ProductForm) Draft() (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draftLocked()
}

func (f *ProductForm) draftLocked() (models.Product, error) {
	v := f.values
	var barcode int64
	if raw := strings.TrimSpace(v.Barcode); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Product{}, fmt.Errorf("%w: %w", ErrRequiredFields, ErrInvalidBarcode)
		}
		barcode = n
	}
	draft := models.Product{
		ProductName:        strings.TrimSpace(v.Name),
		ProductPrice:       f.price,
		ProductBarcode:     barcode,
		ProductDescription: strings.TrimSpace(v.Description),
		ProductImage:       strings.TrimSpace(v.Image),
		ProductCategory:    strings.TrimSpace(v.Category),
		ProductSKU:         strings.TrimSpace(v.SKU),
	}
	if draft.ProductName == "" || draft.ProductPrice <= 0 || draft.ProductBarcode <= 0 ||
		draft.ProductDescription == "" || draft.ProductImage == "" ||
		draft.ProductCategory == "" || draft.ProductSKU == "" {
		return draft, ErrRequiredFields
	}
	return draft, nil
}

// Submit validates the form and inserts it through api. On success the form
// is reset and the created products are returned.
func (f *ProductForm) Submit(api API) ([]models.Product, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	draft, err := f.draftLocked()
	if err != nil {
		f.message = MsgRequiredFields
		f.mu.Unlock()
		return nil, err
	}
	f.submitting = true
	f.message = ""
	f.mu.Unlock()

	created, err := api.Insert(draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.message = submitMessage(err)
		return nil, err
	}
	f.values = FormValues{}
	f.price = 0
	return created, nil
}

func submitMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrDuplicateBarcode):
		return MsgBarcodeExists
	case errors.As(err, &statusErr), errors.Is(err, ErrNotFound):
		return MsgSomethingWrong
	default:
		return MsgTryAgainLater
	}
}
