// Package variant holds the variant engine: Cartesian generation of variants
// from options, per-variant field updates, the search/group/aggregate view
// computations and the Editor that owns one editing session's state.
package variant

import (
	"math"

	"github.com/ikkim/variant-editor/internal/app/model"
)

// GenerateVariants expands options into the Cartesian product of their values.
//
// The enumeration is a left fold: it starts from a single empty combination
// and, option by option, extends every partial combination with each of the
// option's values. Variants are numbered 1..N in that order and start with a
// zero price and inventory. If there are no options, or any option is
// incomplete, the result is empty.
func GenerateVariants(options []model.Option) []model.Variant {
	if !allComplete(options) {
		return []model.Variant{}
	}

	combinations := [][]string{{}}
	for _, option := range options {
		next := make([][]string, 0, len(combinations)*len(option.Values))
		for _, partial := range combinations {
			for _, value := range option.Values {
				combination := make([]string, len(partial), len(partial)+1)
				copy(combination, partial)
				next = append(next, append(combination, value))
			}
		}
		combinations = next
	}

	variants := make([]model.Variant, len(combinations))
	for i, combination := range combinations {
		variants[i] = model.NewVariant(uint(i+1), combination)
	}
	return variants
}

// CountCombinations returns how many variants GenerateVariants would produce,
// saturating at math.MaxInt.
func CountCombinations(options []model.Option) int {
	if !allComplete(options) {
		return 0
	}
	total := 1
	for _, option := range options {
		n := len(option.Values)
		if total > math.MaxInt/n {
			return math.MaxInt
		}
		total *= n
	}
	return total
}

func allComplete(options []model.Option) bool {
	if len(options) == 0 {
		return false
	}
	for _, option := range options {
		if !option.IsComplete() {
			return false
		}
	}
	return true
}

// UpdateVariantField writes the parsed raw value into one field of the variant
// with the given ID. Unknown IDs and fields leave the slice untouched;
// unparseable input is stored as 0.
func UpdateVariantField(variants []model.Variant, variantID uint, field model.VariantField, raw string) []model.Variant {
	if !field.IsValid() {
		return variants
	}
	index := indexOfVariant(variants, variantID)
	if index < 0 {
		return variants
	}

	value := ParseNumber(raw)
	updated := make([]model.Variant, len(variants))
	copy(updated, variants)

	switch field {
	case model.VariantFieldPrice:
		updated[index] = updated[index].WithPrice(value)
	case model.VariantFieldInventory:
		updated[index] = updated[index].WithInventory(toInventory(value))
	}
	return updated
}

// CarryOverEdits copies price and inventory from previous variants onto
// regenerated ones with an identical combination.
func CarryOverEdits(previous, next []model.Variant) []model.Variant {
	if len(previous) == 0 || len(next) == 0 {
		return next
	}
	byCombination := make(map[string]model.Variant, len(previous))
	for _, v := range previous {
		byCombination[v.CombinationKey()] = v
	}

	carried := make([]model.Variant, len(next))
	for i, v := range next {
		if old, ok := byCombination[v.CombinationKey()]; ok {
			v.Price = old.Price
			v.Inventory = old.Inventory
		}
		carried[i] = v
	}
	return carried
}

func indexOfVariant(variants []model.Variant, id uint) int {
	for i, v := range variants {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func toInventory(value float64) int {
	if value <= 0 {
		return 0
	}
	if value >= model.MaxInventory {
		return model.MaxInventory
	}
	return int(math.Trunc(value))
}
