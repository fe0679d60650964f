package models

import "time"

// ProductEventType names a product lifecycle transition.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after a successful write.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	Product    Product          `json:"product"`
	OccurredAt time.Time        `json:"occurred_at"`
}
