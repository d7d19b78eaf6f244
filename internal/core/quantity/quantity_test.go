package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestParse(t *testing.T) {
	tests := []struct {
		raw       string
		ok        bool
		magnitude float64
		unit      string
	}{
		{"250g", true, 250, "g"},
		{"2 cups", true, 2, "cups"},
		{".5 l", true, 0.5, "l"},
		{"12.5", true, 12.5, ""},
		{"   3   pieces  ", true, 3, "pieces"},
		{"1.5kg flour", true, 1.5, "kg flour"},
		{"to taste", false, 0, ""},
		{"", false, 0, ""},
		{"-2 g", false, 0, ""},
		{"a pinch", false, 0, ""},
		{"\u00a0250g", true, 250, "g"},
		{"\v2 cups", true, 2, "cups"},
		{"250\u00a0g", true, 250, "g"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.magnitude, got.Magnitude, 1e-9)
			assert.Equal(t, tt.unit, got.UnitText)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		unit      string
		wantQty   float64
		wantUnit  string
	}{
		{"kilograms to grams", 1, "kg", 1000, UnitGram},
		{"long alias", 2, "Kilograms", 2000, UnitGram},
		{"milligrams", 500, "mg", 0.5, UnitGram},
		{"cups to ml", 2, "cups", 480, UnitMilliliter},
		{"tablespoon", 1, " tablespoon ", 15, UnitMilliliter},
		{"teaspoons", 3, "teaspoons", 15, UnitMilliliter},
		{"litre", 1.5, "litre", 1500, UnitMilliliter},
		{"pieces are unitless", 3, "pc", 3, UnitCount},
		{"pcs alias", 4, "PCS", 4, UnitCount},
		{"empty unit is a count", 6, "", 6, UnitCount},
		{"unknown passes through", 5, "pinch", 5, "pinch"},
		{"unknown is lowercased", 2, "Cloves", 2, "cloves"},
		{"grams idempotent", 42, "g", 42, UnitGram},
		{"ml idempotent", 42, "ml", 42, UnitMilliliter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.magnitude, tt.unit)
			require.NotNil(t, got.Magnitude)
			assert.InDelta(t, tt.wantQty, *got.Magnitude, 1e-9)
			assert.Equal(t, tt.wantUnit, got.Unit)
		})
	}
}

func TestNormalizeWithoutMagnitudeKeepsUnitText(t *testing.T) {
	got := Normalize(nil, "g")
	assert.Nil(t, got.Magnitude)
	assert.Equal(t, "g", got.Unit)

	got = Normalize(nil, "Cups")
	assert.Nil(t, got.Magnitude)
	assert.Equal(t, "Cups", got.Unit)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := ptr(2)
	got := Normalize(in, "kg")
	assert.Equal(t, 2.0, *in)
	assert.Equal(t, 2000.0, *got.Magnitude)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		qty  *float64
		unit string
		want string
	}{
		{"nil magnitude", nil, "g", ""},
		{"kilograms", ptr(1500), "g", "1.5 kg"},
		{"exactly one kilogram", ptr(1000), "g", "1 kg"},
		{"grams", ptr(250), "g", "250 g"},
		{"grams rounded", ptr(12.3456), "g", "12.35 g"},
		{"liters", ptr(2250), "ml", "2.25 l"},
		{"milliliters", ptr(480), "ml", "480 ml"},
		{"count", ptr(3), "", "3"},
		{"count rounds", ptr(2.6), "", "3"},
		{"other unit", ptr(2.5), "pinch", "2.5 pinch"},
		{"trailing zeros dropped", ptr(2.50), "clove", "2.5 clove"},
		{"zero grams", ptr(0), "g", "0 g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.qty, tt.unit))
		})
	}
}

func TestFormatAfterNormalize(t *testing.T) {
	n := NormalizeValue(1.2, "kilograms")
	assert.Equal(t, "1.2 kg", Format(n.Magnitude, n.Unit))

	n = NormalizeValue(3, "tbsp")
	assert.Equal(t, "45 ml", Format(n.Magnitude, n.Unit))
}
