// Package memhost is an in-process [host.Host] backed by GeoJSON layers.
//
// A map document is a small TOML file naming display frames and layers:
//
//	[[frames]]
//	name = "Layers"
//	width_in = 8.0
//	height_in = 6.0
//	meters_per_unit = 1.0
//
//	[[layers]]
//	name = "parcels"
//	path = "parcels.geojson"
//	fill = "#88aadd"
//	stroke = "#333333"
//
// Layer paths are resolved against the document's directory. Each layer is
// loaded once with [github.com/paulmach/orb/geojson] and indexed in an
// R-tree, which the rasterizer queries with the frame extent.
//
// # Filters
//
// A layer filter is a conjunction of equality clauses:
//
//	ZONE = 'R1' AND NAME = 'L''Isle'
//
// AND is case-insensitive, a doubled quote escapes a quote, and the empty
// filter selects every feature. Cursors and the rasterizer only see features
// that pass the filter current at call time.
//
// # Frames
//
// A frame keeps its page aspect ratio. [Host.SetFrameExtent] grows the
// shorter axis about the center, and the scale denominator is the ground
// width divided by the page width, both in meters.
package memhost
