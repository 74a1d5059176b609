package model

import (
	"math"
	"strings"
)

type VariantField string

const (
	VariantFieldPrice     VariantField = "price"
	VariantFieldInventory VariantField = "inventory"
)

func (f VariantField) IsValid() bool {
	return f == VariantFieldPrice || f == VariantFieldInventory
}

// MaxInventory caps inventory counts parsed from free-form input.
const MaxInventory = math.MaxInt32

// Variant is one concrete combination of option values. Combination[i]
// belongs to the i-th option of the generation it came from.
type Variant struct {
	ID          uint     `json:"id"`
	Combination []string `json:"combination"`
	Price       float64  `json:"price"`
	Inventory   int      `json:"inventory"`
}

func NewVariant(id uint, combination []string) Variant {
	return Variant{ID: id, Combination: combination, Price: 0, Inventory: 0}
}

// WithPrice returns a copy with the given price; negative, negative-zero and
// non-finite prices become 0.
func (v Variant) WithPrice(price float64) Variant {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		price = 0
	}
	v.Price = price
	return v
}

// WithInventory returns a copy with the given inventory, clamped to [0, MaxInventory].
func (v Variant) WithInventory(inventory int) Variant {
	switch {
	case inventory < 0:
		inventory = 0
	case inventory > MaxInventory:
		inventory = MaxInventory
	}
	v.Inventory = inventory
	return v
}

// SearchText is the space-joined combination used by the search filter.
func (v Variant) SearchText() string {
	return strings.Join(v.Combination, " ")
}

// CombinationKey identifies a combination independently of the variant ID.
func (v Variant) CombinationKey() string {
	return strings.Join(v.Combination, "\x1f")
}

func (v Variant) Clone() Variant {
	combination := make([]string, len(v.Combination))
	copy(combination, v.Combination)
	v.Combination = combination
	return v
}

func CloneVariants(variants []Variant) []Variant {
	cloned := make([]Variant, len(variants))
	for i, v := range variants {
		cloned[i] = v.Clone()
	}
	return cloned
}
