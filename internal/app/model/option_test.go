package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption_IsComplete(t *testing.T) {
	tests := []struct {
		name   string
		option Option
		want   bool
	}{
		{"Empty option", NewOption(1), false},
		{"Name only", Option{ID: 1, Name: "Size", Values: []string{}}, false},
		{"Whitespace name", Option{ID: 1, Name: "   ", Values: []string{"S"}}, false},
		{"Complete", Option{ID: 1, Name: "Size", Values: []string{"S"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.option.IsComplete())
		})
	}
}

func TestOption_WithName(t *testing.T) {
	original := NewOption(1)

	renamed, ok := original.WithName("  Size ")
	assert.True(t, ok)
	assert.Equal(t, "Size", renamed.Name)
	assert.Equal(t, "", original.Name, "original must not change")

	same, ok := renamed.WithName("   ")
	assert.False(t, ok)
	assert.Equal(t, "Size", same.Name)
}

func TestOption_WithValueAdded(t *testing.T) {
	option := Option{ID: 1, Name: "Size", Values: []string{"S"}}

	added, ok := option.WithValueAdded(" M ")
	assert.True(t, ok)
	assert.Equal(t, []string{"S", "M"}, added.Values)
	assert.Equal(t, []string{"S"}, option.Values, "original must not change")

	_, ok = added.WithValueAdded("S")
	assert.False(t, ok, "duplicates are rejected")

	_, ok = added.WithValueAdded("  S  ")
	assert.False(t, ok, "duplicates are compared after trimming")

	_, ok = added.WithValueAdded("")
	assert.False(t, ok)
}

func TestOption_WithValueRemoved(t *testing.T) {
	option := Option{ID: 1, Name: "Size", Values: []string{"S", "M", "L"}}

	removed, ok := option.WithValueRemoved(1)
	assert.True(t, ok)
	assert.Equal(t, []string{"S", "L"}, removed.Values)
	assert.Equal(t, []string{"S", "M", "L"}, option.Values)

	for _, index := range []int{-1, 3} {
		_, ok := option.WithValueRemoved(index)
		assert.False(t, ok)
	}
}

func TestOption_WithValueReplaced(t *testing.T) {
	option := Option{ID: 1, Name: "Size", Values: []string{"S", "M"}}

	replaced, ok := option.WithValueReplaced(0, " XS ")
	assert.True(t, ok)
	assert.Equal(t, []string{"XS", "M"}, replaced.Values)
	assert.Equal(t, []string{"S", "M"}, option.Values)

	tests := []struct {
		name  string
		index int
		value string
	}{
		{"Out of range", 2, "L"},
		{"Negative index", -1, "L"},
		{"Empty value", 0, "  "},
		{"Duplicate of another value", 0, "M"},
		{"Unchanged value", 1, "M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := option.WithValueReplaced(tt.index, tt.value)
			assert.False(t, ok)
		})
	}
}

func TestVariant_Clamping(t *testing.T) {
	v := NewVariant(1, []string{"S"})

	assert.Equal(t, 0.0, v.WithPrice(-3).Price)
	assert.Equal(t, 12.5, v.WithPrice(12.5).Price)
	assert.Equal(t, 0, v.WithInventory(-1).Inventory)
	assert.Equal(t, MaxInventory, v.WithInventory(MaxInventory+10).Inventory)
}

func TestPriceRange_String(t *testing.T) {
	assert.Equal(t, "0.00", PriceRange{}.String())
	assert.Equal(t, "4.50", PriceRange{Min: 4.5, Max: 4.5}.String())
	assert.Equal(t, "1.00 - 2.25", PriceRange{Min: 1, Max: 2.25, IsRange: true}.String())
	assert.Equal(t, "0.00 - 0.00", PriceRange{IsRange: true}.String())
}

func TestSets_ToggleAndSorted(t *testing.T) {
	ids := IDSet{}
	ids.Toggle(3)
	ids.Toggle(1)
	ids.Toggle(2)
	ids.Toggle(2)
	assert.Equal(t, []uint{1, 3}, ids.Sorted())

	keys := KeySet{}
	keys.Toggle("M")
	keys.Toggle("L")
	keys.Toggle("M")
	assert.Equal(t, []string{"L"}, keys.Sorted())
	assert.True(t, keys.Has("L"))
}
