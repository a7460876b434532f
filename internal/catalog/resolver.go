package catalog

import "github.com/visionaryvybes/visiomancer-core/internal/domain"

// Variant resolution over a product's variant list. Everything here is pure:
// upstream catalog data can be inconsistent, so these functions fall back
// deterministically instead of failing.

// AvailableValues returns the values of optionName that exist on at least one
// enabled variant whose other currently-selected options match selection.
// Selecting "Color" this way narrows which "Size" values remain clickable.
// Order follows the variant list; duplicates are collapsed.
func AvailableValues(variants []domain.Variant, optionName string, selection map[string]string) []string {
	var values []string
	seen := make(map[string]bool)

	for _, v := range variants {
		if !v.Enabled {
			continue
		}
		if !matchesExcept(v.Options, selection, optionName) {
			continue
		}
		val, ok := v.Options[optionName]
		if !ok || seen[val] {
			continue
		}
		seen[val] = true
		values = append(values, val)
	}

	return values
}

// matchesExcept reports whether every selected option other than skip agrees
// with the variant's options.
func matchesExcept(options, selection map[string]string, skip string) bool {
	for name, want := range selection {
		if name == skip {
			continue
		}
		if options[name] != want {
			return false
		}
	}
	return true
}

// Resolve returns the single enabled variant whose options equal selection
// exactly, with every option name assigned. A partial selection or one no
// variant satisfies resolves to false, never an error: the caller falls back
// to a default variant. Should upstream data ever carry two enabled variants
// with identical option tuples, the first in list order wins.
func Resolve(variants []domain.Variant, selection map[string]string) (domain.Variant, bool) {
	if len(selection) == 0 {
		return domain.Variant{}, false
	}

	for _, v := range variants {
		if !v.Enabled {
			continue
		}
		if equalOptions(v.Options, selection) {
			return v, true
		}
	}

	return domain.Variant{}, false
}

func equalOptions(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for name, val := range a {
		if b[name] != val {
			return false
		}
	}
	return true
}

// DisplayPrice returns the price to show for selection: the resolved
// variant's price when the selection is complete, otherwise the minimum
// price among enabled variants. The UI always needs a number.
func DisplayPrice(variants []domain.Variant, selection map[string]string) float64 {
	if v, ok := Resolve(variants, selection); ok {
		return v.Price
	}
	return minEnabledPrice(variants)
}

func minEnabledPrice(variants []domain.Variant) float64 {
	var min float64
	found := false
	for _, v := range variants {
		if !v.Enabled {
			continue
		}
		if !found || v.Price < min {
			min = v.Price
			found = true
		}
	}
	return min
}
