package domain

import "time"

// Store field names for catalog items.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldImageURL    = "image_url"
	FieldInStock     = "in_stock"
)

// Item is a catalog entry. Price is validated strictly positive before it
// reaches the catalog directory.
type Item struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	InStock     bool      `json:"in_stock" bson:"in_stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// RecordID satisfies ports.Record.
func (i *Item) RecordID() string { return i.ID }

// NewItemInput carries the fields needed to create an item. A nil InStock
// defaults to true.
type NewItemInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	InStock     *bool
}

// ItemChanges is a sparse update over an item.
type ItemChanges struct {
	ID          string
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	InStock     *bool
}
