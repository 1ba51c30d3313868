package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductImage belongs to a product. Images of a variant also carry the
// variant id; product level images have a nil VariantID.
type ProductImage struct {
	gorm.Model
	ProductID  uint   `json:"productId"`
	VariantID  *uint  `json:"variantId"`
	Url        string `json:"url"`
	AltText    string `json:"altText"`
	Position   int    `json:"position"`
	StorageKey string `json:"-"`
}

type ProductVariant struct {
	gorm.Model
	ProductID       uint           `json:"productId"`
	Title           string         `json:"title"`
	Price           float64        `json:"price"`
	SKU             string         `json:"sku"`
	InventoryPolicy string         `json:"inventoryPolicy"`
	Option1         string         `json:"option1"`
	Available       int            `json:"available"`
	Cost            float64        `json:"cost"`
	Images          []ProductImage `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

type Product struct {
	gorm.Model
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ProductType string           `json:"productType"`
	Vendor      string           `json:"vendor"`
	Status      string           `json:"status"`
	Tags        datatypes.JSON   `json:"tags"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Request bodies.

type VariantInput struct {
	ID              string  `json:"id"`
	Title           string  `json:"title" binding:"required"`
	Price           float64 `json:"price" binding:"gte=0"`
	SKU             string  `json:"sku" binding:"required"`
	InventoryPolicy string  `json:"inventoryPolicy" binding:"omitempty,oneof=deny continue"`
	Option1         string  `json:"option1"`
	Available       int     `json:"available" binding:"gte=0"`
	Cost            float64 `json:"cost" binding:"gte=0"`
}

type ProductInput struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	ProductType string         `json:"productType"`
	Vendor      string         `json:"vendor"`
	Status      string         `json:"status" binding:"omitempty,oneof=active draft archived"`
	Tags        []string       `json:"tags"`
	Variants    []VariantInput `json:"variants" binding:"required,min=1,dive"`
}

type ReorderItem struct {
	ImageID  string `json:"imageId" binding:"required"`
	Position int    `json:"position" binding:"gte=0"`
}

type ReorderInput struct {
	Items []ReorderItem `json:"items" binding:"required,dive"`
}

// Response bodies. Identifiers are strings on the wire.

type ImageResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	AltText  string `json:"altText,omitempty"`
	Position int    `json:"position"`
}

type VariantResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Price           float64         `json:"price"`
	SKU             string          `json:"sku"`
	InventoryPolicy string          `json:"inventoryPolicy"`
	Option1         string          `json:"option1"`
	Available       int             `json:"available"`
	Cost            float64         `json:"cost"`
	Images          []ImageResponse `json:"images"`
}

type ProductResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ProductType string            `json:"productType"`
	Vendor      string            `json:"vendor"`
	Status      string            `json:"status"`
	Tags        []string          `json:"tags"`
	Images      []ImageResponse   `json:"images"`
	Variants    []VariantResponse `json:"variants"`
}
