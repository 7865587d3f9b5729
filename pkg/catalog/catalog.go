package catalog

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/extent"
	"github.com/matzehuels/featexport/pkg/host"
)

// Record is one feature of the batch.
type Record struct {
	Label        string        // raw value of the unique field
	FilenameStem string        // SanitizeFilename(Label)
	RawExtent    extent.Extent // bounding box of the feature geometry

	// PaddedExtent is set by each render pass.
	PaddedExtent extent.Extent

	// ObservedScale is the scale denominator measured in the first
	// proportional pass. HasScale reports whether it was set.
	ObservedScale float64
	HasScale      bool
}

// SetObservedScale records the scale measured for this feature.
func (r *Record) SetObservedScale(s float64) {
	r.ObservedScale = s
	r.HasScale = true
}

// Build reads every feature of layer from src and validates the result.
// The cursor is closed on every path. See the package documentation for the
// uniqueness rules.
func Build(ctx context.Context, src host.DataSource, layer, field string) ([]Record, error) {
	shape, err := src.DescribeShapeField(layer)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "describe layer %q", layer)
	}

	cur, err := src.OpenCursor(layer, []string{shape, field})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "open cursor on %q", layer)
	}

	records, err := readRecords(ctx, cur)
	if cerr := cur.Close(); cerr != nil && err == nil {
		err = errors.Wrap(errors.ErrCodeHostFailure, cerr, "close cursor on %q", layer)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func readRecords(ctx context.Context, cur host.Cursor) ([]Record, error) {
	var records []Record
	for cur.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ext, label := cur.Row()
		if !ext.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "feature %q has an inverted extent %v", label, ext)
		}
		records = append(records, Record{
			Label:        label,
			FilenameStem: SanitizeFilename(label),
			RawExtent:    ext,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHostFailure, err, "read features")
	}
	return records, nil
}

// Validate checks label and filename uniqueness. Both checks always run;
// when both fail the errors are joined.
func Validate(records []Record) error {
	var errs []error
	if dups := duplicates(records, func(r Record) string { return r.Label }); len(dups) > 0 {
		errs = append(errs, &errors.DuplicateLabelError{Values: dups})
	}
	if dups := duplicates(records, func(r Record) string { return r.FilenameStem }); len(dups) > 0 {
		errs = append(errs, &errors.DuplicateFilenameError{Values: dups})
	}
	return stderrors.Join(errs...)
}

// duplicates returns every key seen more than once, in the order the
// repeats are encountered.
func duplicates(records []Record, key func(Record) string) []string {
	seen := make(map[string]int, len(records))
	var dups []string
	for _, r := range records {
		k := key(r)
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}
