package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductKind string

const (
	ProductKindPerfume ProductKind = "perfume"
	ProductKindPigment ProductKind = "pigment"
)

type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Product is the unified catalog shape used by pages, the cart and the
// favorites list. Kind is the explicit discriminant between the two backend
// variants; the variant fields of the other kind stay at their zero values.
type Product struct {
	ID       int64       `json:"id"`
	Kind     ProductKind `json:"kind"`
	Name     string      `json:"name"`
	Brand    Brand       `json:"brand"`
	Category Category    `json:"category"`
	Image    string      `json:"image"`

	Price              decimal.Decimal `json:"price"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	DiscountPrice      decimal.Decimal `json:"discount_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountStartDate  *time.Time      `json:"discount_start_date,omitempty"`
	DiscountEndDate    *time.Time      `json:"discount_end_date,omitempty"`

	InStock       bool `json:"in_stock"`
	StockQuantity int  `json:"stock_quantity"`

	// Perfume fields.
	VolumeML      int    `json:"volume_ml,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Concentration string `json:"concentration,omitempty"`
	TopNotes      string `json:"top_notes,omitempty"`
	HeartNotes    string `json:"heart_notes,omitempty"`
	BaseNotes     string `json:"base_notes,omitempty"`

	// Pigment fields.
	WeightGR        int    `json:"weight_gr,omitempty"`
	ColorType       string `json:"color_type,omitempty"`
	ApplicationType string `json:"application_type,omitempty"`
}

// PriceInfo is the derived display price of a product. CurrentPrice is always
// positive and never above OriginalPrice when HasDiscount is set.
type PriceInfo struct {
	OriginalPrice decimal.Decimal `json:"original_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	HasDiscount   bool            `json:"has_discount"`
}
