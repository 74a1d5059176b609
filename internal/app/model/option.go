package model

import "strings"

// Option is a named product dimension (Size, Color, ...) with ordered values.
// Option values are immutable: every With* method returns a new Option and
// reports whether the edit was accepted.
type Option struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// OptionDraft is an option that has not been assigned an ID yet (imports).
type OptionDraft struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

func NewOption(id uint) Option {
	return Option{ID: id, Values: []string{}}
}

// IsComplete reports whether the option can take part in variant generation.
func (o Option) IsComplete() bool {
	return strings.TrimSpace(o.Name) != "" && len(o.Values) > 0
}

func (o Option) HasValue(value string) bool {
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}
	return false
}

func (o Option) Clone() Option {
	values := make([]string, len(o.Values))
	copy(values, o.Values)
	o.Values = values
	return o
}

func (o Option) WithName(name string) (Option, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return o, false
	}
	next := o.Clone()
	next.Name = name
	return next, true
}

func (o Option) WithValueAdded(value string) (Option, bool) {
	value = strings.TrimSpace(value)
	if value == "" || o.HasValue(value) {
		return o, false
	}
	next := o.Clone()
	next.Values = append(next.Values, value)
	return next, true
}

func (o Option) WithValueRemoved(index int) (Option, bool) {
	if index < 0 || index >= len(o.Values) {
		return o, false
	}
	values := make([]string, 0, len(o.Values)-1)
	values = append(values, o.Values[:index]...)
	values = append(values, o.Values[index+1:]...)
	next := o
	next.Values = values
	return next, true
}

// WithValueReplaced follows the same rules as WithValueAdded; the value being
// replaced does not count as a duplicate of itself.
func (o Option) WithValueReplaced(index int, value string) (Option, bool) {
	if index < 0 || index >= len(o.Values) {
		return o, false
	}
	value = strings.TrimSpace(value)
	if value == "" || o.Values[index] == value {
		return o, false
	}
	if o.HasValue(value) {
		return o, false
	}
	next := o.Clone()
	next.Values[index] = value
	return next, true
}

// CloneOptions deep-copies a sequence of options.
func CloneOptions(options []Option) []Option {
	cloned := make([]Option, len(options))
	for i, o := range options {
		cloned[i] = o.Clone()
	}
	return cloned
}
