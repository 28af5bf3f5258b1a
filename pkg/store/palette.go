package store

import (
	"fmt"
	"strings"
)

// PaletteColor is one of the eight named line colors.
type PaletteColor struct {
	Name string
	Hex  string
}

// Palette is the fixed set of colors categories can be mapped to.
var Palette = []PaletteColor{
	{"blue", "#00a1de"},
	{"red", "#c60c30"},
	{"purple", "#522398"},
	{"green", "#009b3a"},
	{"orange", "#f9461c"},
	{"brown", "#62361b"},
	{"yellow", "#f9e300"},
	{"pink", "#ee97c9"},
}

// ColorMap maps every category to a palette hex value.
type ColorMap map[Category]string

// DefaultColors returns the initial category color assignment.
func DefaultColors() ColorMap {
	return ColorMap{
		CategoryCardio:      "#00a1de",
		CategoryStrength:    "#c60c30",
		CategoryFlexibility: "#522398",
		CategoryNutrition:   "#009b3a",
		CategoryRecovery:    "#f9461c",
		CategoryEndurance:   "#62361b",
	}
}

// ResolveColor accepts a palette name ("blue") or hex ("#00A1DE") and returns the hex.
func ResolveColor(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, " line")
	for _, p := range Palette {
		if v == p.Name || v == p.Hex {
			return p.Hex, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// ColorName returns the palette name for hex, or hex itself if unknown.
func ColorName(hex string) string {
	for _, p := range Palette {
		if p.Hex == hex {
			return p.Name
		}
	}
	return hex
}

func (m ColorMap) clone() ColorMap {
	out := make(ColorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
