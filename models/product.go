package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option types and sizes used by seasonal products (mango boxes vs. dozens)
const (
	OptionTypeBox      = "box"
	OptionTypeQuantity = "quantity"

	OptionSizeSmall  = "small"
	OptionSizeMedium = "medium"
	OptionSizeBig    = "big"
)

// ErrUnknownOption is returned when a line item references a price option
// that does not exist in the product's own option list.
var ErrUnknownOption = errors.New("no matching price option for product")

// PriceOption is a named price/quantity variant of a product
type PriceOption struct {
	Type     string   `bson:"type" json:"type"`         // "box" or "quantity"
	Size     string   `bson:"size" json:"size"`         // "small", "medium", "big"
	Quantity string   `bson:"quantity" json:"quantity"` // label, e.g. "6.5/7 Dz"
	Price    float64  `bson:"price" json:"price"`
	OldPrice *float64 `bson:"old_price,omitempty" json:"old_price,omitempty"`
}

// Product represents a catalog entry
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	OldPrice        *float64           `bson:"old_price,omitempty" json:"old_price,omitempty"`
	ImageURL        string             `bson:"image_url" json:"image_url"`
	Category        string             `bson:"category" json:"category"`
	StockQuantity   int                `bson:"stock_quantity" json:"stock_quantity"`
	Status          string             `bson:"status" json:"status"` // active, inactive
	IsSeasonal      bool               `bson:"is_seasonal" json:"is_seasonal"`
	HasPriceOptions bool               `bson:"has_price_options" json:"has_price_options"`
	PriceOptions    []PriceOption      `bson:"price_options,omitempty" json:"price_options,omitempty"`
}

// ProductUpdate is a partial update; nil fields are left untouched
type ProductUpdate struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	Price           *float64       `json:"price"`
	OldPrice        *float64       `json:"old_price"`
	ImageURL        *string        `json:"image_url"`
	Category        *string        `json:"category"`
	StockQuantity   *int           `json:"stock_quantity"`
	Status          *string        `json:"status"`
	IsSeasonal      *bool          `json:"is_seasonal"`
	PriceOptions    *[]PriceOption `json:"price_options"`
	HasPriceOptions *bool          `json:"has_price_options"`
}

// FindOption looks up a price option in the product's own list by
// (type, size). The client never dictates a price: the stored option wins.
func (p *Product) FindOption(optType, size string) (*PriceOption, bool) {
	for i := range p.PriceOptions {
		if p.PriceOptions[i].Type == optType && p.PriceOptions[i].Size == size {
			return &p.PriceOptions[i], true
		}
	}
	return nil, false
}

// ResolveUnitPrice resolves the effective unit price for a line item.
// Without a selected option it is the base price. With one, the option is
// re-looked-up in the product's canonical option list and the stored price
// is used; an unknown (type, size) combination is an error.
func (p *Product) ResolveUnitPrice(selected *PriceOption) (float64, error) {
	if selected == nil {
		return p.Price, nil
	}
	option, ok := p.FindOption(selected.Type, selected.Size)
	if !ok {
		return 0, ErrUnknownOption
	}
	return option.Price, nil
}

// UnitPriceOrBase is the lenient variant used when rendering a cart: a line
// carrying a stale option still prices at the base price instead of failing
// the whole read.
func (p *Product) UnitPriceOrBase(selected *PriceOption) float64 {
	price, err := p.ResolveUnitPrice(selected)
	if err != nil {
		return p.Price
	}
	return price
}
