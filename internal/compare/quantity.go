package compare

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultTolerance is the relative difference under which two measurements
// of the same dimension are treated as the same value.
const DefaultTolerance = 0.03

type unit struct {
	dimension string
	factor    float64 // to the dimension's base unit
}

var units = map[string]unit{
	"mm":     {"length", 0.001},
	"cm":     {"length", 0.01},
	"m":      {"length", 1},
	"in":     {"length", 0.0254},
	"inch":   {"length", 0.0254},
	"inches": {"length", 0.0254},
	"ft":     {"length", 0.3048},
	"g":      {"mass", 0.001},
	"kg":     {"mass", 1},
	"lb":     {"mass", 0.45359237},
	"lbs":    {"mass", 0.45359237},
	"oz":     {"mass", 0.028349523125},
	"ml":     {"volume", 0.001},
	"l":      {"volume", 1},
	"mah":    {"charge", 1},
	"wh":     {"energy", 1},
	"w":      {"power", 1},
	"v":      {"voltage", 1},
	"hz":     {"frequency", 1},
	"gb":     {"storage", 1},
	"tb":     {"storage", 1000},
}

const unitAlternation = `mm|cm|mah|ml|m|inches|inch|in|ft|kg|g|lbs|lb|oz|l|wh|w|v|hz|gb|tb`

var (
	quantityPattern      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(` + unitAlternation + `)\b`)
	exactQuantityPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(` + unitAlternation + `)?\.?$`)
)

// quantity is a measurement converted to its dimension's base unit. A bare
// number has an empty dimension.
type quantity struct {
	value     float64
	dimension string
}

// parseQuantity parses a value that is nothing but a number and optional unit
func parseQuantity(s string) (quantity, bool) {
	m := exactQuantityPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return quantity{}, false
	}
	return toQuantity(m[1], m[2])
}

// findQuantities returns every number-with-unit mentioned in text
func findQuantities(text string) []quantity {
	var found []quantity
	for _, m := range quantityPattern.FindAllStringSubmatch(text, -1) {
		if q, ok := toQuantity(m[1], m[2]); ok {
			found = append(found, q)
		}
	}
	return found
}

func toQuantity(number, unitName string) (quantity, bool) {
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return quantity{}, false
	}
	if unitName == "" {
		return quantity{value: v}, true
	}
	u, ok := units[strings.ToLower(unitName)]
	if !ok {
		return quantity{}, false
	}
	return quantity{value: v * u.factor, dimension: u.dimension}, true
}

// sameQuantity reports whether a and b share a dimension and differ by no
// more than tolerance relative to the larger magnitude.
func sameQuantity(a, b quantity, tolerance float64) bool {
	if a.dimension != b.dimension {
		return false
	}
	largest := math.Max(math.Abs(a.value), math.Abs(b.value))
	if largest == 0 {
		return true
	}
	return math.Abs(a.value-b.value)/largest <= tolerance
}
