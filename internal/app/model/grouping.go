package model

import (
	"fmt"
	"sort"
)

type GroupingKind string

const (
	GroupingFlat    GroupingKind = "flat"
	GroupingGrouped GroupingKind = "grouped"
)

// VariantGroup is one bucket of a grouped projection. Key is the option value
// shared by every member.
type VariantGroup struct {
	Key      string    `json:"key"`
	Variants []Variant `json:"variants"`
}

// Grouping is either a flat list (Kind == GroupingFlat, Flat set) or an
// ordered list of groups (Kind == GroupingGrouped, Groups set).
type Grouping struct {
	Kind   GroupingKind   `json:"kind"`
	Flat   []Variant      `json:"flat,omitempty"`
	Groups []VariantGroup `json:"groups,omitempty"`
}

func FlatGrouping(variants []Variant) Grouping {
	return Grouping{Kind: GroupingFlat, Flat: variants}
}

func GroupedGrouping(groups []VariantGroup) Grouping {
	return Grouping{Kind: GroupingGrouped, Groups: groups}
}

func (g Grouping) IsGrouped() bool {
	return g.Kind == GroupingGrouped
}

// Keys returns the group keys in group order; nil for a flat grouping.
func (g Grouping) Keys() []string {
	if !g.IsGrouped() {
		return nil
	}
	keys := make([]string, len(g.Groups))
	for i, group := range g.Groups {
		keys[i] = group.Key
	}
	return keys
}

// PriceRange is the price summary of a group. IsRange is set when the group
// had more than one member, even if min and max are equal.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	IsRange bool    `json:"is_range"`
}

func (r PriceRange) String() string {
	if r.IsRange {
		return fmt.Sprintf("%.2f - %.2f", r.Min, r.Max)
	}
	return fmt.Sprintf("%.2f", r.Min)
}

// IDSet is a set of variant IDs.
type IDSet map[uint]struct{}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Toggle(id uint) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

func (s IDSet) Sorted() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// KeySet is a set of group keys.
type KeySet map[string]struct{}

func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet) Toggle(key string) {
	if s.Has(key) {
		delete(s, key)
		return
	}
	s[key] = struct{}{}
}

func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
