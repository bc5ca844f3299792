package optimize

import "math"

// Plan is a color/size budget derived from a quality level.
type Plan struct {
	Colors int
	Lossy  *int // nil = lossless
}

// BudgetFor maps a 0-100 quality level to a color budget and lossy value.
//
// The color budget is round(maxColors*quality/100) clamped to
// [16, maxColors], then capped at currentColors when known: requesting
// more colors than the source uses buys nothing. The lossy value is the
// explicit override when set, otherwise 100-quality when lossy compression
// was requested, otherwise nil.
//
// The function is pure and total: any quality input yields a valid plan.
func BudgetFor(quality, currentColors, maxColors int, lossy bool, lossyOverride *int) Plan {
	if maxColors < 16 || maxColors > 256 {
		maxColors = 256
	}
	quality = clampInt(quality, 0, 100)

	colors := int(math.Round(float64(maxColors) * float64(quality) / 100))
	colors = clampInt(colors, 16, maxColors)
	if currentColors > 1 && currentColors < colors {
		colors = currentColors
	}

	plan := Plan{Colors: colors}
	switch {
	case lossyOverride != nil:
		v := clampInt(*lossyOverride, 0, 100)
		plan.Lossy = &v
	case lossy:
		v := 100 - quality
		plan.Lossy = &v
	}
	return plan
}
