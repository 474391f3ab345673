package models

import "github.com/shopspring/decimal"

// CartItem is one cart line. ID is generated client-side; UnitPrice is the
// effective price picked up from the price resolver at the last mutation.
type CartItem struct {
	ID          string          `json:"id"`
	Product     Product         `json:"product"`
	ProductType ProductKind     `json:"product_type"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartState is the full derived cart snapshot. Total and ItemCount are
// recomputed from Items on every mutation and never stored independently.
type CartState struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
