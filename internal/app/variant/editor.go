package variant

import (
	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/pkg/logger"
)

// Config tunes regeneration.
type Config struct {
	// MaxVariants rejects option edits that would produce more variants. 0 = no bound.
	MaxVariants int
	// PreserveEdits keeps price/inventory of combinations that survive a regeneration.
	// When false every regeneration starts from zero prices and inventory.
	PreserveEdits bool
}

// Editor owns the state of one editing session: the options, the variants
// generated from them and the view state of the variant table. It is the only
// writer of that state. Invalid input never produces an error; the operation
// is simply ignored.
//
// Editor is not safe for concurrent use.
type Editor struct {
	cfg          Config
	options      []model.Option
	variants     []model.Variant
	nextOptionID uint

	groupBy    string
	searchTerm string
	selection  model.IDSet
	expansion  model.KeySet
}

func NewEditor(cfg Config) *Editor {
	return &Editor{
		cfg:       cfg,
		options:   []model.Option{},
		variants:  []model.Variant{},
		selection: model.IDSet{},
		expansion: model.KeySet{},
	}
}

func (e *Editor) Options() []model.Option {
	return model.CloneOptions(e.options)
}

func (e *Editor) Variants() []model.Variant {
	return model.CloneVariants(e.variants)
}

func (e *Editor) GroupBy() string    { return e.groupBy }
func (e *Editor) SearchTerm() string { return e.searchTerm }

// AddOption appends a new, still incomplete option and returns its ID.
func (e *Editor) AddOption() uint {
	e.nextOptionID++
	option := model.NewOption(e.nextOptionID)
	next := append(model.CloneOptions(e.options), option)
	if !e.applyOptions(next) {
		return 0
	}
	return option.ID
}

func (e *Editor) DeleteOption(optionID uint) {
	index := e.optionPosition(optionID)
	if index < 0 {
		return
	}
	next := make([]model.Option, 0, len(e.options)-1)
	next = append(next, e.options[:index]...)
	next = append(next, e.options[index+1:]...)
	e.applyOptions(model.CloneOptions(next))
}

func (e *Editor) RenameOption(optionID uint, name string) {
	e.editOption(optionID, func(o model.Option) (model.Option, bool) {
		return o.WithName(name)
	})
}

func (e *Editor) AddValue(optionID uint, value string) {
	e.editOption(optionID, func(o model.Option) (model.Option, bool) {
		return o.WithValueAdded(value)
	})
}

func (e *Editor) DeleteValue(optionID uint, index int) {
	e.editOption(optionID, func(o model.Option) (model.Option, bool) {
		return o.WithValueRemoved(index)
	})
}

func (e *Editor) UpdateValue(optionID uint, index int, value string) {
	e.editOption(optionID, func(o model.Option) (model.Option, bool) {
		return o.WithValueReplaced(index, value)
	})
}

// ReplaceOptions swaps the whole option list for the given drafts. Each draft
// gets a fresh ID and its name and values go through the same rules as
// RenameOption and AddValue. The swap happens as one regeneration.
func (e *Editor) ReplaceOptions(drafts []model.OptionDraft) bool {
	next := make([]model.Option, 0, len(drafts))
	nextID := e.nextOptionID
	for _, draft := range drafts {
		nextID++
		option := model.NewOption(nextID)
		if renamed, ok := option.WithName(draft.Name); ok {
			option = renamed
		}
		for _, value := range draft.Values {
			if added, ok := option.WithValueAdded(value); ok {
				option = added
			}
		}
		next = append(next, option)
	}
	if !e.applyOptions(next) {
		return false
	}
	e.nextOptionID = nextID
	return true
}

func (e *Editor) UpdateVariantField(variantID uint, field model.VariantField, raw string) {
	e.variants = UpdateVariantField(e.variants, variantID, field, raw)
}

// SetGroupBy selects the option to group by; unknown names render flat.
func (e *Editor) SetGroupBy(optionName string) {
	e.groupBy = optionName
}

func (e *Editor) SetSearchTerm(term string) {
	e.searchTerm = term
}

// ToggleSelection flips one variant's selection. IDs outside the current
// variant set are ignored.
func (e *Editor) ToggleSelection(variantID uint) {
	if indexOfVariant(e.variants, variantID) < 0 {
		return
	}
	e.selection.Toggle(variantID)
}

// ToggleSelectAll clears the selection when it already has as many entries as
// there are variants, and selects every variant otherwise.
func (e *Editor) ToggleSelectAll() {
	if len(e.selection) == len(e.variants) {
		e.selection = model.IDSet{}
		return
	}
	all := make(model.IDSet, len(e.variants))
	for _, v := range e.variants {
		all[v.ID] = struct{}{}
	}
	e.selection = all
}

// ToggleGroupSelection flips the selection of each variant currently shown
// under the group, one by one.
func (e *Editor) ToggleGroupSelection(groupKey string) {
	for _, v := range e.visibleGroupMembers(groupKey) {
		e.selection.Toggle(v.ID)
	}
}

func (e *Editor) ToggleGroupExpansion(groupKey string) {
	e.expansion.Toggle(groupKey)
}

func (e *Editor) CollapseAll() {
	e.expansion = model.KeySet{}
}

// ExpandAll expands every group of the current grouping.
func (e *Editor) ExpandAll() {
	expansion := model.KeySet{}
	for _, key := range GroupVariants(e.variants, e.options, e.groupBy).Keys() {
		expansion[key] = struct{}{}
	}
	e.expansion = expansion
}

func (e *Editor) editOption(optionID uint, edit func(model.Option) (model.Option, bool)) {
	index := e.optionPosition(optionID)
	if index < 0 {
		return
	}
	edited, ok := edit(e.options[index])
	if !ok {
		return
	}
	next := model.CloneOptions(e.options)
	next[index] = edited
	e.applyOptions(next)
}

// applyOptions installs a new option list and regenerates the variants.
func (e *Editor) applyOptions(next []model.Option) bool {
	if limit := e.cfg.MaxVariants; limit > 0 {
		if count := CountCombinations(next); count > limit {
			logger.Warn("Option edit rejected: too many variants", map[string]interface{}{
				"combinations": count,
				"limit":        limit,
			})
			return false
		}
	}

	variants := GenerateVariants(next)
	if e.cfg.PreserveEdits {
		variants = CarryOverEdits(e.variants, variants)
	}
	e.options = next
	e.replaceVariants(variants)

	logger.Debug("Variants regenerated", map[string]interface{}{
		"options":  len(next),
		"variants": len(variants),
	})
	return true
}

// replaceVariants swaps the variant set. The table view lives only while there
// are variants: emptying the set resets the view state, and the first
// non-empty set groups by the first option.
func (e *Editor) replaceVariants(variants []model.Variant) {
	wasEmpty := len(e.variants) == 0
	e.variants = variants

	switch {
	case len(variants) == 0:
		e.groupBy = ""
		e.searchTerm = ""
		e.selection = model.IDSet{}
		e.expansion = model.KeySet{}
	case wasEmpty:
		e.groupBy = ""
		if len(e.options) > 0 {
			e.groupBy = e.options[0].Name
		}
	}

	// ids are positions 1..N, so only ids past the new end can go stale
	for id := range e.selection {
		if id > uint(len(variants)) {
			delete(e.selection, id)
		}
	}
}

func (e *Editor) optionPosition(optionID uint) int {
	for i, option := range e.options {
		if option.ID == optionID {
			return i
		}
	}
	return -1
}

func (e *Editor) visibleGroupMembers(groupKey string) []model.Variant {
	grouping := GroupVariants(e.variants, e.options, e.groupBy)
	for _, group := range grouping.Groups {
		if group.Key == groupKey {
			return FilterVariants(group.Variants, e.searchTerm)
		}
	}
	return nil
}
