package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seasonalProduct() *Product {
	return &Product{
		Name:            "Alphonso Mango",
		Price:           500,
		HasPriceOptions: true,
		PriceOptions: []PriceOption{
			{Type: OptionTypeBox, Size: OptionSizeSmall, Quantity: "6.5/7 Dz", Price: 3000},
			{Type: OptionTypeBox, Size: OptionSizeBig, Quantity: "5/5.5 Dz", Price: 3600},
			{Type: OptionTypeQuantity, Size: "1 Dz", Quantity: "1 Dz", Price: 550},
		},
	}
}

func TestResolveUnitPriceBase(t *testing.T) {
	p := seasonalProduct()

	price, err := p.ResolveUnitPrice(nil)
	assert.NoError(t, err)
	assert.Equal(t, 500.0, price)
}

func TestResolveUnitPriceUsesStoredOptionPrice(t *testing.T) {
	p := seasonalProduct()

	// The client-sent price is ignored; the catalog price wins
	price, err := p.ResolveUnitPrice(&PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3000.0, price)
}

func TestResolveUnitPriceUnknownOption(t *testing.T) {
	p := seasonalProduct()

	_, err := p.ResolveUnitPrice(&PriceOption{Type: OptionTypeBox, Size: "huge"})
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestUnitPriceOrBaseFallsBack(t *testing.T) {
	p := seasonalProduct()

	assert.Equal(t, 3600.0, p.UnitPriceOrBase(&PriceOption{Type: OptionTypeBox, Size: OptionSizeBig}))
	assert.Equal(t, 500.0, p.UnitPriceOrBase(&PriceOption{Type: OptionTypeBox, Size: "huge"}))
	assert.Equal(t, 500.0, p.UnitPriceOrBase(nil))
}

func TestFindOption(t *testing.T) {
	p := seasonalProduct()

	option, ok := p.FindOption(OptionTypeQuantity, "1 Dz")
	assert.True(t, ok)
	assert.Equal(t, 550.0, option.Price)

	_, ok = p.FindOption(OptionTypeBox, OptionSizeMedium)
	assert.False(t, ok)
}
