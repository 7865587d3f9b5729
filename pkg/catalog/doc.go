// Package catalog builds the in-memory list of features a batch exports.
//
// A catalog is built once per run from the layer's data source: one
// [Record] per feature, in cursor order, carrying the feature's label (the
// value of the user-chosen unique field), a filesystem-safe filename stem
// derived from that label, and the raw extent of its geometry.
//
// # Uniqueness
//
// Labels select features through the host's filter predicate and stems name
// output files, so both must be unique across the batch. [Build] checks the
// two independently and runs both checks to completion before failing:
//
//	records, err := catalog.Build(ctx, src, "parcels", "PARCEL_ID")
//	var dupLabels *errors.DuplicateLabelError
//	if stderrors.As(err, &dupLabels) {
//	    // dupLabels.Values lists every repeated label
//	}
//
// Sanitizing can make distinct labels collide ("A.B" and "A/B" both become
// "A.B"), which is reported as a [errors.DuplicateFilenameError].
//
// [errors.DuplicateFilenameError]: github.com/matzehuels/featexport/pkg/errors.DuplicateFilenameError
package catalog
