package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const defaultGender = "U"

// NormalizeProduct maps a raw backend payload into the unified Product shape.
// Missing text fields become empty strings, missing discount numbers become
// zero, a missing in_stock flag defaults to true and a missing gender to "U".
// Returns nil for a nil payload.
func NormalizeProduct(raw *RawProduct) *Product {
	if raw == nil {
		return nil
	}

	p := &Product{
		ID:                 raw.ID,
		Kind:               raw.DetectKind(),
		Name:               raw.Name,
		Image:              raw.Image,
		Price:              parseAmount(raw.Price),
		FinalPrice:         parseAmount(raw.FinalPrice),
		DiscountPrice:      parseAmount(raw.DiscountPrice),
		DiscountPercentage: decimal.NewFromFloat(raw.DiscountPercentage),
		DiscountStartDate:  parseDate(raw.DiscountStartDate),
		DiscountEndDate:    parseDate(raw.DiscountEndDate),
		InStock:            true,
		StockQuantity:      raw.StockQuantity,
		VolumeML:           raw.VolumeML,
		Gender:             raw.Gender,
		Concentration:      raw.Concentration,
		TopNotes:           raw.TopNotes,
		HeartNotes:         raw.HeartNotes,
		BaseNotes:          raw.BaseNotes,
		WeightGR:           raw.WeightGR,
		ColorType:          raw.ColorType,
		ApplicationType:    raw.ApplicationType,
	}

	if raw.InStock != nil {
		p.InStock = *raw.InStock
	}
	if p.Gender == "" {
		p.Gender = defaultGender
	}
	if raw.Brand != nil {
		p.Brand = Brand{
			ID:          raw.Brand.ID,
			Name:        raw.Brand.Name,
			Description: raw.Brand.Description,
			Country:     raw.Brand.Country,
		}
	}
	if raw.Category != nil {
		p.Category = Category{
			ID:          raw.Category.ID,
			Name:        raw.Category.Name,
			Description: raw.Category.Description,
			Type:        raw.Category.Type,
		}
	}

	return p
}

// NormalizeForCart flattens either variant into the single shape the cart
// renders. Pigments are mapped onto the perfume display slots: weight_gr
// fills the volume slot, color_type fills the concentration slot, and gender
// is forced to "U". This is a display-compatibility shim the cart view
// depends on; it is not a semantic equivalence.
func NormalizeForCart(raw *RawProduct) *Product {
	p := NormalizeProduct(raw)
	if p == nil {
		return nil
	}
	if p.Kind == ProductKindPigment {
		p.VolumeML = raw.WeightGR
		p.Concentration = raw.ColorType
		p.Gender = defaultGender
	}
	return p
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
