package extent

// Pad grows or shrinks e symmetrically about its center.
//
// scalePercent is a percentage of the original size: 100 leaves the extent
// unchanged, 150 adds a quarter of the span on each side, 50 removes one.
// Each axis is adjusted independently:
//
//	factor = scalePercent/100 - 1
//	min'   = min - (max-min)*factor/2
//	max'   = max + (max-min)*factor/2
//
// Pad never fails. A percentage of 0 collapses the extent onto its center
// and negative percentages invert it; callers that care must check the
// result with [Extent.Valid] or [Extent.Degenerate].
func Pad(e Extent, scalePercent float64) Extent {
	factor := scalePercent/100 - 1
	if factor == 0 {
		return e
	}
	dx := e.Width() * factor / 2
	dy := e.Height() * factor / 2
	return Extent{
		XMin: e.XMin - dx,
		XMax: e.XMax + dx,
		YMin: e.YMin - dy,
		YMax: e.YMax + dy,
	}
}
