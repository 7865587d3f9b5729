// Package batch runs the per-feature image export.
//
// A run takes a [Config] and a [host.Host], and exports one image per feature
// of the configured layer:
//
//	r := batch.NewRunner(h, logger)
//	report, err := r.Run(ctx, batch.Config{
//	    Layer:       "communes",
//	    UniqueField: "NAME",
//	    OutputDir:   "out",
//	    FillMode:    batch.FillModeProportional,
//	    ExtentScale: 120,
//	    Format:      export.FormatPNG,
//	    DPI:         150,
//	})
//
// # Passes
//
// [Unifier] drives the host through an explicit state machine:
//
//	Idle → PerFeature → FillDone
//	                  ↘ ScaleReduction → UniformExport → Done
//
// In fill mode each feature is exported during the per-feature pass, zoomed
// to its own padded extent. In proportional mode the per-feature pass only
// measures the scale each padded extent renders at; the reduction picks the
// largest denominator (the most zoomed-out scale, which fits every feature)
// and the uniform pass re-renders every feature at that scale.
//
// # Workspace
//
// The layer filter and frame extent are captured before the first mutation
// and restored on every exit path, including validation failures and host
// errors mid-batch. Any host failure aborts the whole batch.
//
// [host.Host]: github.com/matzehuels/featexport/pkg/host.Host
package batch
