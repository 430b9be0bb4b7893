package garage

import "github.com/torres-mse/garage/pkg/core"

// slotPolicy caps how many parts of a category may be installed at once.
// Every shipped category is single-slot; the table exists so a future
// multi-slot category (e.g. paired gauges) is a data change, not a code
// change.
var slotPolicy = map[core.Category]int{}

// slotLimit returns the installed-part cap for a category.
func slotLimit(cat core.Category) int {
	if n, ok := slotPolicy[cat]; ok && n > 0 {
		return n
	}
	return 1
}
