package variant

import (
	"testing"

	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVariants(t *testing.T) {
	variants := GenerateVariants(sizeColorOptions())

	tests := []struct {
		name string
		term string
		want []uint
	}{
		{"Blank term", "   ", []uint{1, 2, 3, 4}},
		{"Case insensitive", "blue", []uint{2, 4}},
		{"Upper case term", "RED", []uint{1, 3}},
		{"Spans values", "s blue", []uint{2}},
		{"No match", "green", []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterVariants(variants, tt.term)))
		})
	}
}

func TestFilterVariants_Idempotent(t *testing.T) {
	variants := GenerateVariants([]model.Option{
		{ID: 1, Name: "Size", Values: []string{"S", "M", "L"}},
		{ID: 2, Name: "Color", Values: []string{"Red", "Blue", "Light Blue"}},
	})

	for _, term := range []string{"", "blue", "l", "m red", "zzz"} {
		once := FilterVariants(variants, term)
		twice := FilterVariants(once, term)
		assert.Equal(t, once, twice, term)
	}
}

func TestGroupVariants_BySize(t *testing.T) {
	options := sizeColorOptions()
	variants := GenerateVariants(options)

	grouping := GroupVariants(variants, options, "Size")

	require.True(t, grouping.IsGrouped())
	assert.Equal(t, []string{"S", "M"}, grouping.Keys())
	assert.Equal(t, []uint{1, 2}, ids(grouping.Groups[0].Variants))
	assert.Equal(t, []uint{3, 4}, ids(grouping.Groups[1].Variants))
}

func TestGroupVariants_FallsBackToFlat(t *testing.T) {
	options := sizeColorOptions()
	variants := GenerateVariants(options)

	for _, name := range []string{"", "Material", "size"} {
		grouping := GroupVariants(variants, options, name)
		assert.Equal(t, model.GroupingFlat, grouping.Kind, name)
		assert.Equal(t, variants, grouping.Flat)
		assert.Nil(t, grouping.Keys())
	}
}

func TestGroupVariants_IsPartition(t *testing.T) {
	options := []model.Option{
		{ID: 1, Name: "Size", Values: []string{"S", "M", "L"}},
		{ID: 2, Name: "Color", Values: []string{"Red", "Blue"}},
		{ID: 3, Name: "Material", Values: []string{"Cotton", "Wool"}},
	}
	variants := GenerateVariants(options)

	for _, option := range options {
		t.Run(option.Name, func(t *testing.T) {
			grouping := GroupVariants(variants, options, option.Name)
			require.True(t, grouping.IsGrouped())
			assert.Equal(t, option.Values, grouping.Keys())

			var covered []uint
			seen := make(map[uint]int)
			for _, group := range grouping.Groups {
				for _, v := range group.Variants {
					covered = append(covered, v.ID)
					seen[v.ID]++
				}
			}
			assert.Len(t, covered, len(variants))
			for _, v := range variants {
				assert.Equal(t, 1, seen[v.ID])
			}
		})
	}
}

func TestGroupVariants_KeepsIdentity(t *testing.T) {
	options := sizeColorOptions()
	variants := UpdateVariantField(GenerateVariants(options), 4, model.VariantFieldPrice, "8")

	grouping := GroupVariants(variants, options, "Color")
	require.Len(t, grouping.Groups, 2)
	assert.Equal(t, "Blue", grouping.Groups[1].Key)
	assert.Equal(t, variants[3], grouping.Groups[1].Variants[1])
}

func TestGroupPriceRange(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   model.PriceRange
		label  string
	}{
		{"No members", nil, model.PriceRange{}, "0.00"},
		{"One member", []float64{4.5}, model.PriceRange{Min: 4.5, Max: 4.5}, "4.50"},
		{"Many members", []float64{3, 1.25, 9}, model.PriceRange{Min: 1.25, Max: 9, IsRange: true}, "1.25 - 9.00"},
		{"Equal prices", []float64{0, 0}, model.PriceRange{IsRange: true}, "0.00 - 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variants := make([]model.Variant, len(tt.prices))
			for i, p := range tt.prices {
				variants[i] = model.NewVariant(uint(i+1), []string{"x"}).WithPrice(p)
			}
			got := GroupPriceRange(variants)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.label, got.String())
		})
	}
}

func TestInventoryAggregates(t *testing.T) {
	variants := GenerateVariants(sizeColorOptions())
	variants = UpdateVariantField(variants, 1, model.VariantFieldInventory, "2")
	variants = UpdateVariantField(variants, 3, model.VariantFieldInventory, "5")

	assert.Equal(t, 7, TotalInventory(variants))
	assert.Equal(t, 2, GroupInventory(variants[:2]))
	assert.Equal(t, 0, TotalInventory(nil))
}

func TestVariantLabels(t *testing.T) {
	options := sizeColorOptions()
	v := GenerateVariants(options)[1]

	assert.Equal(t, "Size / Color", VariantTitle(options, "Size", false))
	assert.Equal(t, "Color", VariantTitle(options, "Size", true))
	assert.Equal(t, "Size / Color", VariantTitle(options, "Missing", true))
	assert.Equal(t, DefaultVariantTitle, VariantTitle(options[:1], "Size", true))
	assert.Equal(t, DefaultVariantTitle, VariantTitle(nil, "", false))

	assert.Equal(t, "Size: S / Color: Blue", VariantDisplay(v, options, "Size", false))
	assert.Equal(t, "Color: Blue", VariantDisplay(v, options, "Size", true))
	assert.Equal(t, "Size: S", VariantDisplay(v, options, "Color", true))
}

func TestVariantCountLabel(t *testing.T) {
	assert.Equal(t, "1 variant", VariantCountLabel(1))
	assert.Equal(t, "2 variants", VariantCountLabel(2))
	assert.Equal(t, `No variants found matching "blu"`, NoMatchesMessage("blu"))
}
