package models

import "time"

// Product represents a product record managed through the admin API.
// Products are soft-deleted: delete sets IsActive to false and reads
// exclude inactive records, but the row is kept.
type Product struct {
	// ID is the unique identifier for the product.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the product name.
	Name string `gorm:"size:100;not null" json:"name"`
	// Description is a short description of the product.
	Description string `gorm:"size:500;not null" json:"description"`
	// Price is the unit price.
	Price float64 `gorm:"not null" json:"price"`
	// Category is the product category label.
	Category string `gorm:"size:50;not null" json:"category"`
	// Stock is the number of units on hand.
	Stock int `gorm:"not null" json:"stock"`
	// ImageURL references a product image, if any.
	ImageURL string `gorm:"size:255" json:"imageUrl"`
	// CreatedByID is the ID of the user who created the product.
	CreatedByID uint64 `gorm:"column:created_by_id" json:"createdById"`
	// CreatedBy is the creating user (loaded on reads).
	CreatedBy User `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`
	// IsActive is the soft-delete flag.
	IsActive bool `gorm:"default:true" json:"isActive"`
	// CreatedAt is the timestamp when the product was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the product was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Product model.
func (Product) TableName() string {
	return "products"
}
