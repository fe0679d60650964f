package catalogclient

import (
	"errors"
	"fmt"
	"sync"

	"catalog/internal/models"
)

// RowMode is the state of one row in the product table.
type RowMode int

// Row modes.
const (
	RowViewing RowMode = iota
	RowEditing
	RowConfirmingDelete
	RowRemoved
)

func (m RowMode) String() string {
	switch m {
	case RowViewing:
		return "viewing"
	case RowEditing:
		return "editing"
	case RowConfirmingDelete:
		return "confirming-delete"
	case RowRemoved:
		return "removed"
	}
	return "unknown"
}

// MsgConfirmDelete is the question asked before a delete.
const MsgConfirmDelete = "Are you sure you want to delete this product?"

// ErrInvalidTransition is returned when an action does not apply to the
// row's current mode.
var ErrInvalidTransition = errors.New("invalid row transition")

// RowEditor drives inline edit and delete of a single product row. After a
// successful save or delete it reloads the collection it belongs to.
type RowEditor struct {
	api        API
	collection *CollectionView

	mu      sync.Mutex
	mode    RowMode
	product models.Product
	form    *ProductForm
	saving  bool
}

// NewRowEditor returns an editor in viewing mode for product. collection
// may be nil when no list needs refreshing.
func NewRowEditor(api API, collection *CollectionView, product models.Product) *RowEditor {
	return &RowEditor{api: api, collection: collection, product: product}
}

// Mode is the row's current state.
func (r *RowEditor) Mode() RowMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Product is the row as last loaded or saved.
func (r *RowEditor) Product() models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.product
}

// Form is the edit form, or nil outside editing mode.
func (r *RowEditor) Form() *ProductForm {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.form
}

// Edit seeds a form from the row and enters editing mode.
func (r *RowEditor) Edit() (*ProductForm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != RowViewing {
		return nil, r.transitionErr("edit")
	}
	r.form = NewProductFormFrom(r.product)
	r.mode = RowEditing
	return r.form, nil
}

// Cancel leaves editing or delete confirmation without calling the API.
func (r *RowEditor) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != RowEditing && r.mode != RowConfirmingDelete {
		return r.transitionErr("cancel")
	}
	r.form = nil
	r.mode = RowViewing
	return nil
}

// Save sends the edited fields. The row stays in editing mode on failure.
// A second Save while the first is pending returns ErrSubmitInFlight, and a
// barcode that is not a number is rejected with ErrInvalidBarcode before any
// request is made.
func (r *RowEditor) Save() (*models.Product, error) {
	r.mu.Lock()
	if r.mode != RowEditing {
		defer r.mu.Unlock()
		return nil, r.transitionErr("save")
	}
	if r.saving {
		r.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	form, id := r.form, r.product.ID
	fields, err := form.Draft()
	if errors.Is(err, ErrInvalidBarcode) {
		r.mu.Unlock()
		return nil, err
	}
	r.saving = true
	r.mu.Unlock()

	updated, err := r.api.Update(id, fields)

	r.mu.Lock()
	r.saving = false
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.product = *updated
	r.form = nil
	r.mode = RowViewing
	r.mu.Unlock()

	r.reload()
	return updated, nil
}

// RequestDelete asks for confirmation and returns the question to show.
func (r *RowEditor) RequestDelete() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != RowViewing {
		return "", r.transitionErr("delete")
	}
	r.mode = RowConfirmingDelete
	return MsgConfirmDelete, nil
}

// ConfirmDelete deletes the product. A failed delete returns the row to
// viewing mode.
func (r *RowEditor) ConfirmDelete() error {
	r.mu.Lock()
	if r.mode != RowConfirmingDelete {
		defer r.mu.Unlock()
		return r.transitionErr("confirm delete")
	}
	id := r.product.ID
	r.mu.Unlock()

	_, err := r.api.Delete(id)

	r.mu.Lock()
	if err != nil {
		r.mode = RowViewing
		r.mu.Unlock()
		return err
	}
	r.mode = RowRemoved
	r.mu.Unlock()

	r.reload()
	return nil
}

func (r *RowEditor) reload() {
	if r.collection != nil {
		r.collection.Load()
	}
}

func (r *RowEditor) transitionErr(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, r.mode)
}
