package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"catalog/internal/repositories"
)

var (
	// ErrProductNotFound is returned when no product matches an identifier.
	ErrProductNotFound = repositories.ErrProductNotFound
	// ErrEmptyBatch is returned when an insert carries no drafts at all.
	ErrEmptyBatch = errors.New("no products supplied")
)

// ValidationError reports a draft that is missing required fields.
type ValidationError struct {
	// Index is the position of the draft within the submitted batch.
	Index int
	// Fields maps each failing field to the rule it broke.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, rule := range e.Fields {
		names = append(names, name+" ("+rule+")")
	}
	sort.Strings(names)
	return fmt.Sprintf("product %d failed validation: %s", e.Index, strings.Join(names, ", "))
}

// ConflictError reports a barcode that is already taken.
type ConflictError struct {
	// Barcode is zero when the store rejected the batch without naming it.
	Barcode int64
}

func (e *ConflictError) Error() string {
	if e.Barcode == 0 {
		return "Product with this barcode is already added."
	}
	return fmt.Sprintf("Product with barcode %d is already added.", e.Barcode)
}
