package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a shop item with per-variant stock
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Inventory []InventoryEntry   `bson:"inventory" json:"inventory"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// InventoryEntry is the stock count for one (size, color) variant.
// Quantity never goes below zero; settlement aborts rather than oversell.
type InventoryEntry struct {
	Size     string `bson:"size" json:"size"`
	Color    string `bson:"color,omitempty" json:"color,omitempty"`
	Quantity int    `bson:"quantity" json:"quantity"`
}
