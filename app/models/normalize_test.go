package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProductNil(t *testing.T) {
	assert.Nil(t, NormalizeProduct(nil))
	assert.Nil(t, NormalizeForCart(nil))
}

func TestNormalizeProductDefaults(t *testing.T) {
	p := NormalizeProduct(&RawProduct{ID: 7, Name: "Velvet Musk", Price: "1200.00"})
	require.NotNil(t, p)

	assert.Equal(t, ProductKindPerfume, p.Kind)
	assert.True(t, p.InStock, "missing in_stock defaults to true")
	assert.Equal(t, "U", p.Gender)
	assert.True(t, p.DiscountPercentage.IsZero())
	assert.True(t, p.FinalPrice.IsZero())
	assert.Empty(t, p.Brand.Name)
	assert.Empty(t, p.Category.Name)
	assert.Nil(t, p.DiscountStartDate)
}

func TestNormalizeProductBadPriceBecomesZero(t *testing.T) {
	p := NormalizeProduct(&RawProduct{ID: 1, Price: "not-a-number"})
	require.NotNil(t, p)
	assert.True(t, p.Price.IsZero())

	p = NormalizeProduct(&RawProduct{ID: 2})
	require.NotNil(t, p)
	assert.True(t, p.Price.IsZero())
}

func TestNormalizeProductKeepsSubObjects(t *testing.T) {
	inStock := false
	raw := &RawProduct{
		ID:                7,
		Name:              "Iris Absolu",
		Price:             "2490.00",
		DiscountStartDate: "2026-03-01",
		DiscountEndDate:   "2026-03-31T23:59:59Z",
		InStock:           &inStock,
		VolumeML:          50,
		Gender:            "F",
		Concentration:     "EDP",
		Brand:             &RawBrand{ID: 3, Name: "Maison Verte", Country: "FR"},
		Category:          &RawCategory{ID: 9, Name: "Niche", Type: "perfume"},
	}

	p := NormalizeProduct(raw)
	require.NotNil(t, p)

	assert.Equal(t, ProductKindPerfume, p.Kind)
	assert.Equal(t, "Maison Verte", p.Brand.Name)
	assert.Equal(t, "FR", p.Brand.Country)
	assert.Equal(t, "Niche", p.Category.Name)
	assert.False(t, p.InStock)
	require.NotNil(t, p.DiscountStartDate)
	require.NotNil(t, p.DiscountEndDate)
	assert.Equal(t, "F", p.Gender)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("2490.00")))
}

func TestNormalizeForCartPigmentShim(t *testing.T) {
	raw := &RawProduct{
		ID:              12,
		Name:            "Ruby Mica",
		Price:           "350.00",
		WeightGR:        25,
		ColorType:       "shimmer",
		ApplicationType: "eyes",
		Gender:          "F",
	}

	p := NormalizeForCart(raw)
	require.NotNil(t, p)

	assert.Equal(t, ProductKindPigment, p.Kind)
	assert.Equal(t, 25, p.VolumeML, "weight_gr fills the volume slot")
	assert.Equal(t, "shimmer", p.Concentration, "color_type fills the concentration slot")
	assert.Equal(t, "U", p.Gender, "gender is forced to U for pigments")
	assert.Equal(t, 25, p.WeightGR)
	assert.Equal(t, "eyes", p.ApplicationType)
}

func TestNormalizeForCartPerfumeUnchanged(t *testing.T) {
	raw := &RawProduct{ID: 4, Name: "Cedar Noir", Price: "990.00", VolumeML: 100, Gender: "M", Concentration: "EDT"}

	p := NormalizeForCart(raw)
	require.NotNil(t, p)

	assert.Equal(t, ProductKindPerfume, p.Kind)
	assert.Equal(t, 100, p.VolumeML)
	assert.Equal(t, "M", p.Gender)
	assert.Equal(t, "EDT", p.Concentration)
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, ProductKindPerfume, (&RawProduct{VolumeML: 50}).DetectKind())
	assert.Equal(t, ProductKindPigment, (&RawProduct{WeightGR: 10}).DetectKind())
	assert.Equal(t, ProductKindPigment, (&RawProduct{ColorType: "matte"}).DetectKind())
	assert.Equal(t, ProductKindPerfume, (&RawProduct{}).DetectKind())
}
