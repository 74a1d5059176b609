package variant

import (
	"strings"

	"github.com/ikkim/variant-editor/internal/app/model"
)

// VariantRow is one rendered table row.
type VariantRow struct {
	model.Variant
	Title    string `json:"title"`
	Display  string `json:"display"`
	Selected bool   `json:"selected"`
}

// GroupView is one rendered group header plus, when expanded, its rows.
// PriceRange and Inventory cover every member of the group; the Visible*
// figures cover the members left after the search filter.
type GroupView struct {
	Key               string           `json:"key"`
	OptionName        string           `json:"option_name"`
	VariantIDs        []uint           `json:"variant_ids"`
	CountLabel        string           `json:"count_label"`
	PriceRange        model.PriceRange `json:"price_range"`
	PriceLabel        string           `json:"price_label"`
	Inventory         int              `json:"inventory"`
	VisiblePriceRange model.PriceRange `json:"visible_price_range"`
	VisiblePriceLabel string           `json:"visible_price_label"`
	VisibleInventory  int              `json:"visible_inventory"`
	AllSelected       bool             `json:"all_selected"`
	Expanded          bool             `json:"expanded"`
	Rows              []VariantRow     `json:"rows,omitempty"`
}

// Snapshot is everything the presentation layer needs to render one frame.
// It shares nothing mutable with the Editor that produced it.
type Snapshot struct {
	Options           []model.Option     `json:"options"`
	Variants          []model.Variant    `json:"variants"`
	IncompleteOptions bool               `json:"incomplete_options"`
	GroupBy           string             `json:"group_by"`
	SearchTerm        string             `json:"search_term"`
	Grouping          model.GroupingKind `json:"grouping"`
	Rows              []VariantRow       `json:"rows,omitempty"`
	Groups            []GroupView        `json:"groups,omitempty"`
	NoMatches         string             `json:"no_matches,omitempty"`
	TotalInventory    int                `json:"total_inventory"`
	SelectedIDs       []uint             `json:"selected_ids"`
	AllSelected       bool               `json:"all_selected"`
	ExpandedKeys      []string           `json:"expanded_keys"`
}

// Snapshot renders the current state: search filter first, then grouping,
// then per-group aggregates.
func (e *Editor) Snapshot() Snapshot {
	options := e.Options()
	variants := e.Variants()

	snap := Snapshot{
		Options:           options,
		Variants:          variants,
		IncompleteOptions: hasIncomplete(options),
		GroupBy:           e.groupBy,
		SearchTerm:        e.searchTerm,
		TotalInventory:    TotalInventory(variants),
		SelectedIDs:       e.selection.Sorted(),
		AllSelected:       len(e.selection) == len(variants),
		ExpandedKeys:      e.expansion.Sorted(),
	}

	filtered := FilterVariants(variants, e.searchTerm)
	if strings.TrimSpace(e.searchTerm) != "" && len(filtered) == 0 {
		snap.NoMatches = NoMatchesMessage(e.searchTerm)
	}

	grouping := GroupVariants(variants, options, e.groupBy)
	snap.Grouping = grouping.Kind
	if !grouping.IsGrouped() {
		snap.Rows = e.rows(filtered, options, false)
		return snap
	}

	snap.Groups = make([]GroupView, 0, len(grouping.Groups))
	for _, group := range grouping.Groups {
		visible := FilterVariants(group.Variants, e.searchTerm)
		if len(visible) == 0 {
			continue
		}
		snap.Groups = append(snap.Groups, e.groupView(group, visible, options))
	}
	return snap
}

func (e *Editor) groupView(group model.VariantGroup, visible []model.Variant, options []model.Option) GroupView {
	ids := make([]uint, len(visible))
	allSelected := true
	for i, v := range visible {
		ids[i] = v.ID
		if !e.selection.Has(v.ID) {
			allSelected = false
		}
	}

	priceRange := GroupPriceRange(group.Variants)
	visibleRange := GroupPriceRange(visible)
	view := GroupView{
		Key:               group.Key,
		OptionName:        e.groupBy,
		VariantIDs:        ids,
		CountLabel:        VariantCountLabel(len(visible)),
		PriceRange:        priceRange,
		PriceLabel:        priceRange.String(),
		Inventory:         GroupInventory(group.Variants),
		VisiblePriceRange: visibleRange,
		VisiblePriceLabel: visibleRange.String(),
		VisibleInventory:  GroupInventory(visible),
		AllSelected:       allSelected,
		Expanded:          e.expansion.Has(group.Key),
	}
	if view.Expanded {
		view.Rows = e.rows(visible, options, true)
	}
	return view
}

func (e *Editor) rows(variants []model.Variant, options []model.Option, subRow bool) []VariantRow {
	title := VariantTitle(options, e.groupBy, subRow)
	rows := make([]VariantRow, len(variants))
	for i, v := range variants {
		rows[i] = VariantRow{
			Variant:  v,
			Title:    title,
			Display:  VariantDisplay(v, options, e.groupBy, subRow),
			Selected: e.selection.Has(v.ID),
		}
	}
	return rows
}

func hasIncomplete(options []model.Option) bool {
	for _, option := range options {
		if !option.IsComplete() {
			return true
		}
	}
	return false
}
