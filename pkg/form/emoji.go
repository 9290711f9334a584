package form

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// pictographic covers the Unicode blocks category labels draw their leading
// emoji from. Segmentation is done per grapheme cluster, so variation
// selectors, skin tones and ZWJ sequences stay attached to their base symbol.
var pictographic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2300, Hi: 0x23FF, Stride: 1}, // miscellaneous technical (watch, hourglass)
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // miscellaneous symbols + dingbats
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // arrows, stars
	},
	R32: []unicode.Range32{
		{Lo: 0x1F000, Hi: 0x1FAFF, Stride: 1}, // emoji planes incl. flags and supplements
	},
}

// LeadingPictograph returns the first grapheme cluster of label when it is a
// pictograph, so "🍕 Dining" yields "🍕" and "Snacks" yields nothing.
func LeadingPictograph(label string) (string, bool) {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(label, -1)
	if cluster == "" {
		return "", false
	}
	first := []rune(cluster)[0]
	if !unicode.Is(pictographic, first) {
		return "", false
	}
	return cluster, true
}
