package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

func shirtVariants() []domain.Variant {
	return []domain.Variant{
		{ID: "v1", Title: "Black / S", Price: 10, Enabled: true, Options: map[string]string{"Color": "Black", "Size": "S"}},
		{ID: "v2", Title: "Black / M", Price: 12, Enabled: true, Options: map[string]string{"Color": "Black", "Size": "M"}},
		{ID: "v3", Title: "White / S", Price: 11, Enabled: true, Options: map[string]string{"Color": "White", "Size": "S"}},
		{ID: "v4", Title: "White / L", Price: 14, Enabled: false, Options: map[string]string{"Color": "White", "Size": "L"}},
	}
}

func TestAvailableValues_NarrowedBySelection(t *testing.T) {
	values := AvailableValues(shirtVariants(), "Size", map[string]string{"Color": "Black"})
	assert.Equal(t, []string{"S", "M"}, values)
}

func TestAvailableValues_SkipsDisabledVariants(t *testing.T) {
	values := AvailableValues(shirtVariants(), "Size", map[string]string{"Color": "White"})
	assert.Equal(t, []string{"S"}, values)
}

func TestAvailableValues_NoSelectionReturnsAllEnabled(t *testing.T) {
	values := AvailableValues(shirtVariants(), "Color", nil)
	assert.Equal(t, []string{"Black", "White"}, values)
}

func TestResolve_ExactMatch(t *testing.T) {
	v, ok := Resolve(shirtVariants(), map[string]string{"Color": "Black", "Size": "M"})
	assert.True(t, ok)
	assert.Equal(t, "v2", v.ID)
	assert.InDelta(t, 12.0, v.Price, 1e-9)
}

func TestResolve_PartialSelectionIsUnresolved(t *testing.T) {
	_, ok := Resolve(shirtVariants(), map[string]string{"Color": "Black"})
	assert.False(t, ok)
}

func TestResolve_UnknownValueIsUnresolved(t *testing.T) {
	_, ok := Resolve(shirtVariants(), map[string]string{"Color": "Red"})
	assert.False(t, ok)
}

func TestResolve_DisabledVariantNeverResolves(t *testing.T) {
	_, ok := Resolve(shirtVariants(), map[string]string{"Color": "White", "Size": "L"})
	assert.False(t, ok)
}

func TestResolve_DuplicateTuplePicksFirstInListOrder(t *testing.T) {
	variants := []domain.Variant{
		{ID: "dup1", Price: 9, Enabled: true, Options: map[string]string{"Size": "S"}},
		{ID: "dup2", Price: 99, Enabled: true, Options: map[string]string{"Size": "S"}},
	}

	v, ok := Resolve(variants, map[string]string{"Size": "S"})
	assert.True(t, ok)
	assert.Equal(t, "dup1", v.ID)
}

func TestDisplayPrice_ResolvedSelection(t *testing.T) {
	price := DisplayPrice(shirtVariants(), map[string]string{"Color": "Black", "Size": "M"})
	assert.InDelta(t, 12.0, price, 1e-9)
}

func TestDisplayPrice_FallsBackToMinimumEnabledPrice(t *testing.T) {
	price := DisplayPrice(shirtVariants(), map[string]string{"Color": "Red"})
	assert.InDelta(t, 10.0, price, 1e-9)
}

func TestDisplayPrice_EmptyVariantListIsZero(t *testing.T) {
	price := DisplayPrice(nil, nil)
	assert.Zero(t, price)
}
