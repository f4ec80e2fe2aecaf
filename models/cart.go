package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a user's cart, identified by
// (product_id, selected_option)
type CartItem struct {
	ProductID      string       `bson:"product_id" json:"product_id"`
	Quantity       int          `bson:"quantity" json:"quantity"`
	SelectedOption *PriceOption `bson:"selected_option,omitempty" json:"selected_option,omitempty"`
}

// Cart holds the line items of a single user, created lazily on first access
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// SameOption reports whether two selected options are the same cart-line
// identity. Both nil counts as equal; option fields are compared in full.
func SameOption(a, b *PriceOption) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Size != b.Size || a.Quantity != b.Quantity || a.Price != b.Price {
		return false
	}
	if a.OldPrice == nil || b.OldPrice == nil {
		return a.OldPrice == b.OldPrice
	}
	return *a.OldPrice == *b.OldPrice
}

// MergeCartItem adds an item to the line list. A line with the same
// (product_id, selected_option) pair has its quantity incremented; otherwise
// the item is appended as a new line.
func MergeCartItem(items []CartItem, item CartItem) []CartItem {
	for i := range items {
		if items[i].ProductID == item.ProductID && SameOption(items[i].SelectedOption, item.SelectedOption) {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// UpdateCartItem applies a quantity/option update to the line list.
// A quantity of zero or less removes every line for the product regardless
// of option; a positive quantity updates the first line for the product,
// replacing its selected option when one is supplied. Lines that collide
// after the replacement are folded together, so the list never carries two
// lines with the same (product_id, selected_option) identity.
func UpdateCartItem(items []CartItem, productID string, quantity int, selected *PriceOption) []CartItem {
	if quantity <= 0 {
		kept := items[:0]
		for _, item := range items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		return kept
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			if selected != nil {
				items[i].SelectedOption = selected
			}
			break
		}
	}
	return collapseLines(items)
}

// collapseLines folds lines sharing a (product_id, selected_option) identity
// into the first occurrence, summing quantities
func collapseLines(items []CartItem) []CartItem {
	out := items[:0]
	for _, item := range items {
		merged := false
		for i := range out {
			if out[i].ProductID == item.ProductID && SameOption(out[i].SelectedOption, item.SelectedOption) {
				out[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, item)
		}
	}
	return out
}
