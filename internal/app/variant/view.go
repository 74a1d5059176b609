package variant

import (
	"fmt"
	"math"
	"strings"

	"github.com/ikkim/variant-editor/internal/app/model"
)

// DefaultVariantTitle is used when no option names are left to show.
const DefaultVariantTitle = "Variant"

// FilterVariants keeps the variants whose space-joined combination contains
// term, case-insensitively. A blank term returns the input unchanged.
func FilterVariants(variants []model.Variant, term string) []model.Variant {
	if strings.TrimSpace(term) == "" {
		return variants
	}
	needle := strings.ToLower(term)
	filtered := make([]model.Variant, 0, len(variants))
	for _, v := range variants {
		if strings.Contains(strings.ToLower(v.SearchText()), needle) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// GroupVariants partitions variants by their value for the option named
// groupBy. Groups appear in first-seen order and members keep their relative
// order. An empty or unknown option name yields a flat grouping.
func GroupVariants(variants []model.Variant, options []model.Option, groupBy string) model.Grouping {
	if groupBy == "" {
		return model.FlatGrouping(variants)
	}
	index := optionIndex(options, groupBy)
	if index < 0 {
		return model.FlatGrouping(variants)
	}

	groups := make([]model.VariantGroup, 0)
	positions := make(map[string]int)
	for _, v := range variants {
		key := valueAt(v, index)
		pos, ok := positions[key]
		if !ok {
			pos = len(groups)
			positions[key] = pos
			groups = append(groups, model.VariantGroup{Key: key})
		}
		groups[pos].Variants = append(groups[pos].Variants, v)
	}
	return model.GroupedGrouping(groups)
}

// TotalInventory sums inventory over the given variants.
func TotalInventory(variants []model.Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Inventory
	}
	return total
}

// GroupInventory is the inventory column of a group header.
func GroupInventory(variants []model.Variant) int {
	return TotalInventory(variants)
}

// GroupPriceRange summarizes the prices of a group: min and max for more than
// one member, the single price for one member, zero for none.
func GroupPriceRange(variants []model.Variant) model.PriceRange {
	switch len(variants) {
	case 0:
		return model.PriceRange{}
	case 1:
		return model.PriceRange{Min: variants[0].Price, Max: variants[0].Price}
	}

	r := model.PriceRange{Min: math.Inf(1), Max: math.Inf(-1), IsRange: true}
	for _, v := range variants {
		r.Min = math.Min(r.Min, v.Price)
		r.Max = math.Max(r.Max, v.Price)
	}
	return r
}

// VariantTitle lists the option names shown above a row's values. Sub-rows of
// a group leave out the grouped option.
func VariantTitle(options []model.Option, groupBy string, subRow bool) string {
	skip := -1
	if subRow && groupBy != "" {
		skip = optionIndex(options, groupBy)
	}

	names := make([]string, 0, len(options))
	for i, option := range options {
		if i == skip || option.Name == "" {
			continue
		}
		names = append(names, option.Name)
	}
	if len(names) == 0 {
		return DefaultVariantTitle
	}
	return strings.Join(names, " / ")
}

// VariantDisplay renders a combination as "Size: S / Color: Red". Sub-rows of
// a group leave out the grouped option's value.
func VariantDisplay(v model.Variant, options []model.Option, groupBy string, subRow bool) string {
	skip := -1
	if subRow && groupBy != "" {
		skip = optionIndex(options, groupBy)
	}

	parts := make([]string, 0, len(v.Combination))
	for i, value := range v.Combination {
		if i == skip {
			continue
		}
		part := value
		if i < len(options) && options[i].Name != "" {
			part = options[i].Name + ": " + value
		}
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " / ")
}

// VariantCountLabel is the "n variants" badge of a group header.
func VariantCountLabel(n int) string {
	if n > 1 {
		return fmt.Sprintf("%d variants", n)
	}
	return fmt.Sprintf("%d variant", n)
}

// NoMatchesMessage is shown when a search leaves nothing to display.
func NoMatchesMessage(term string) string {
	return fmt.Sprintf("No variants found matching %q", term)
}

func optionIndex(options []model.Option, name string) int {
	for i, option := range options {
		if option.Name == name {
			return i
		}
	}
	return -1
}

func valueAt(v model.Variant, index int) string {
	if index < len(v.Combination) {
		return v.Combination[index]
	}
	return ""
}
