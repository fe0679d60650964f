package models

import (
	"slices"
	"time"
)

// MaxBarcode is the largest barcode that fits in twelve digits.
const MaxBarcode int64 = 999_999_999_999

// Product represents a product in the catalog.
// The JSON field names are part of the wire contract with the browser client.
type Product struct {
	ID                 string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"-"`
	ProductName        string    `json:"ProductName" validate:"required"`
	ProductPrice       int64     `json:"ProductPrice" validate:"required,gt=0"`
	ProductBarcode     int64     `json:"ProductBarcode" gorm:"index" validate:"required,gt=0,lte=999999999999"`
	ProductDescription string    `json:"ProductDescription" validate:"required"`
	ProductImage       string    `json:"ProductImage" validate:"required"`
	ProductCategory    string    `json:"ProductCategory" validate:"required"`
	ProductSKU         string    `json:"ProductSKU" validate:"required"`
	CreatedAt          time.Time `json:"-" bson:"-"`
}

// ApplyFields copies the seven business fields from src, leaving the ID alone.
func (p *Product) ApplyFields(src Product) {
	p.ProductName = src.ProductName
	p.ProductPrice = src.ProductPrice
	p.ProductBarcode = src.ProductBarcode
	p.ProductDescription = src.ProductDescription
	p.ProductImage = src.ProductImage
	p.ProductCategory = src.ProductCategory
	p.ProductSKU = src.ProductSKU
}

// Categories lists the categories offered by the creation form.
// The API accepts any category string.
var Categories = []string{"Electronics", "Clothing", "Books", "Beauty", "Home Appliances"}

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	return slices.Contains(Categories, c)
}
