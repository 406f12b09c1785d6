package style

import "sort"

// tableauColors is the Tableau-10 qualitative palette, the de facto default
// for categorical coloring.
var tableauColors = []string{
	"#1f77b4", // blue
	"#ff7f0e", // orange
	"#2ca02c", // green
	"#d62728", // red
	"#9467bd", // purple
	"#8c564b", // brown
	"#e377c2", // pink
	"#7f7f7f", // gray
	"#bcbd22", // olive
	"#17becf", // cyan
}

// extendedColors are darker accents appended so that typical DSM category
// counts (~19) stay injective before the palette cycles.
var extendedColors = []string{
	"#8B4513", // saddle brown
	"#4B0082", // indigo
	"#800000", // maroon
	"#006400", // dark green
	"#483D8B", // dark slate blue
	"#8B008B", // dark magenta
	"#2F4F4F", // dark slate gray
	"#556B2F", // dark olive green
	"#000080", // navy
}

// PaletteSize is the number of colors available before cycling
var PaletteSize = len(tableauColors) + len(extendedColors)

// Palette maps each distinct category label to a stable color. Labels are
// sorted before assignment so the same category set always yields the same
// mapping regardless of input order. Colors cycle past PaletteSize.
func Palette(categories []string) map[string]string {
	distinct := make(map[string]bool, len(categories))
	for _, c := range categories {
		distinct[c] = true
	}

	sorted := make([]string, 0, len(distinct))
	for c := range distinct {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	all := make([]string, 0, PaletteSize)
	all = append(all, tableauColors...)
	all = append(all, extendedColors...)

	palette := make(map[string]string, len(sorted))
	for i, c := range sorted {
		palette[c] = all[i%len(all)]
	}
	return palette
}
