package models

// Raw payload shapes as the backend serializes them. Prices come over the
// wire as strings, discount dates as RFC 3339 strings, and the two product
// variants share one envelope with optional variant fields.

type RawBrand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

type RawCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type RawProduct struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Brand    *RawBrand    `json:"brand"`
	Category *RawCategory `json:"category"`
	Image    string       `json:"image"`

	Price              string  `json:"price"`
	FinalPrice         string  `json:"final_price"`
	DiscountPrice      string  `json:"discount_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountStartDate  string  `json:"discount_start_date"`
	DiscountEndDate    string  `json:"discount_end_date"`

	InStock       *bool `json:"in_stock"`
	StockQuantity int   `json:"stock_quantity"`

	VolumeML      int    `json:"volume_ml"`
	Gender        string `json:"gender"`
	Concentration string `json:"concentration"`
	TopNotes      string `json:"top_notes"`
	HeartNotes    string `json:"heart_notes"`
	BaseNotes     string `json:"base_notes"`

	WeightGR        int    `json:"weight_gr"`
	ColorType       string `json:"color_type"`
	ApplicationType string `json:"application_type"`
}

// DetectKind resolves the variant from the presence of variant fields:
// a volume marks a perfume, a weight or color type marks a pigment.
// Payloads carrying neither are treated as perfumes.
func (r *RawProduct) DetectKind() ProductKind {
	if r.VolumeML > 0 {
		return ProductKindPerfume
	}
	if r.WeightGR > 0 || r.ColorType != "" {
		return ProductKindPigment
	}
	return ProductKindPerfume
}
