package assetsel

// Filter labels whether the current selection matches a named preset.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterStablecoins Filter = "stablecoins"
	FilterNative      Filter = "native"
	FilterCustom      Filter = "custom"
)

// Preset is a filter that can be applied, i.e. every Filter except custom.
func (f Filter) Preset() bool {
	switch f {
	case FilterAll, FilterStablecoins, FilterNative:
		return true
	default:
		return false
	}
}

// CheckState is the tri-state of a token row's checkbox.
type CheckState uint8

const (
	CheckNone CheckState = iota
	CheckSome
	CheckAll
)

// Classify labels a selection against the three presets: FilterAll when it
// equals every entry across all rows, FilterStablecoins / FilterNative when
// it equals the entries of that category, FilterCustom otherwise. Equality
// is order-independent; an empty selection is always custom.
func Classify(rows []TokenRow, selected map[string]struct{}) Filter {
	if len(selected) == 0 {
		return FilterCustom
	}
	for _, f := range []Filter{FilterAll, FilterStablecoins, FilterNative} {
		if setsEqual(selected, KeysForFilter(rows, f)) {
			return f
		}
	}
	return FilterCustom
}

// KeysForFilter derives the selection set a preset denotes. FilterCustom
// yields nil.
func KeysForFilter(rows []TokenRow, f Filter) map[string]struct{} {
	if !f.Preset() {
		return nil
	}
	keys := make(map[string]struct{})
	for _, row := range rows {
		include := f == FilterAll ||
			(f == FilterStablecoins && row.Category == CategoryStablecoin) ||
			(f == FilterNative && row.Category == CategoryNative)
		if !include {
			continue
		}
		for _, c := range row.Chains {
			keys[c.Key] = struct{}{}
		}
	}
	return keys
}

// RowCheckState returns the checkbox tri-state for a row: CheckAll iff all
// of its chains are selected, CheckNone iff none are, CheckSome otherwise.
func RowCheckState(row TokenRow, selected map[string]struct{}) CheckState {
	n := 0
	for _, c := range row.Chains {
		if _, ok := selected[c.Key]; ok {
			n++
		}
	}
	switch {
	case n == 0:
		return CheckNone
	case n == len(row.Chains):
		return CheckAll
	default:
		return CheckSome
	}
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
