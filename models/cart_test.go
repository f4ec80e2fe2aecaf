package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestSameOption(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Quantity: "6.5/7 Dz", Price: 3000}
	big := &PriceOption{Type: OptionTypeBox, Size: OptionSizeBig, Quantity: "5/5.5 Dz", Price: 3600}

	assert.True(t, SameOption(nil, nil))
	assert.False(t, SameOption(small, nil))
	assert.False(t, SameOption(nil, small))
	assert.True(t, SameOption(small, &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Quantity: "6.5/7 Dz", Price: 3000}))
	assert.False(t, SameOption(small, big))

	// Same option but different old price is a different line identity
	discounted := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Quantity: "6.5/7 Dz", Price: 3000, OldPrice: floatPtr(3300)}
	assert.False(t, SameOption(small, discounted))
	assert.True(t, SameOption(discounted, &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Quantity: "6.5/7 Dz", Price: 3000, OldPrice: floatPtr(3300)}))
}

func TestMergeCartItemIncrementsMatchingLine(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}

	items := []CartItem{{ProductID: "p1", Quantity: 1, SelectedOption: small}}
	items = MergeCartItem(items, CartItem{ProductID: "p1", Quantity: 2, SelectedOption: &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}})

	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestMergeCartItemAppendsOnDifferentOption(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}
	big := &PriceOption{Type: OptionTypeBox, Size: OptionSizeBig, Price: 3600}

	items := []CartItem{{ProductID: "p1", Quantity: 1, SelectedOption: small}}
	items = MergeCartItem(items, CartItem{ProductID: "p1", Quantity: 1, SelectedOption: big})
	items = MergeCartItem(items, CartItem{ProductID: "p2", Quantity: 1})

	assert.Len(t, items, 3)
	assert.Equal(t, "p1", items[1].ProductID)
	assert.Equal(t, OptionSizeBig, items[1].SelectedOption.Size)
	assert.Nil(t, items[2].SelectedOption)
}

func TestUpdateCartItemZeroQuantityRemovesAllLinesForProduct(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}
	big := &PriceOption{Type: OptionTypeBox, Size: OptionSizeBig, Price: 3600}

	items := []CartItem{
		{ProductID: "p1", Quantity: 1, SelectedOption: small},
		{ProductID: "p1", Quantity: 2, SelectedOption: big},
		{ProductID: "p2", Quantity: 5},
	}
	// Removal ignores the option: every p1 line goes
	items = UpdateCartItem(items, "p1", 0, nil)

	assert.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestUpdateCartItemPositiveQuantity(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}
	big := &PriceOption{Type: OptionTypeBox, Size: OptionSizeBig, Price: 3600}

	items := []CartItem{{ProductID: "p1", Quantity: 1, SelectedOption: small}}

	items = UpdateCartItem(items, "p1", 4, nil)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, OptionSizeSmall, items[0].SelectedOption.Size)

	items = UpdateCartItem(items, "p1", 2, big)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, OptionSizeBig, items[0].SelectedOption.Size)

	// Unknown product is a no-op
	items = UpdateCartItem(items, "missing", 3, nil)
	assert.Len(t, items, 1)
}

func TestUpdateCartItemFoldsCollidingLines(t *testing.T) {
	small := &PriceOption{Type: OptionTypeBox, Size: OptionSizeSmall, Price: 3000}
	big := &PriceOption{Type: OptionTypeBox, Size: OptionSizeBig, Price: 3600}

	items := []CartItem{
		{ProductID: "p1", Quantity: 1, SelectedOption: big},
		{ProductID: "p1", Quantity: 1, SelectedOption: small},
		{ProductID: "p2", Quantity: 2},
	}
	// Switching the first p1 line to small collides with the existing small
	// line; the two fold into one
	items = UpdateCartItem(items, "p1", 5, small)

	assert.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 6, items[0].Quantity)
	assert.Equal(t, OptionSizeSmall, items[0].SelectedOption.Size)
	assert.Equal(t, "p2", items[1].ProductID)

	// No two lines share an identity after the mutation
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[i].ProductID == items[j].ProductID {
				assert.False(t, SameOption(items[i].SelectedOption, items[j].SelectedOption))
			}
		}
	}
}
