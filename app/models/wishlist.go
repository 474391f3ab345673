package models

import "github.com/shopspring/decimal"

// WishlistItem is one favorited product. A favorite is identified by the
// (ProductID, ProductType) pair, not by the synthetic ID. ServerID is set
// once the item has been synced to the backend for an authenticated user.
type WishlistItem struct {
	ID           string          `json:"id"`
	ProductType  ProductKind     `json:"product_type"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	ProductPrice decimal.Decimal `json:"product_price"`
	ProductData  *Product        `json:"product_data,omitempty"`
	ServerID     string          `json:"server_id,omitempty"`
}

func (w WishlistItem) SameProduct(productID int64, kind ProductKind) bool {
	return w.ProductID == productID && w.ProductType == kind
}
