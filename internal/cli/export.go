package cli

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/featexport/pkg/batch"
	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/export"
	"github.com/matzehuels/featexport/pkg/observability"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	config    string // optional batch config file (TOML)
	cfg       batch.Config
	format    string
	mode      string
	listFiles bool
}

// exportCommand creates the export command, which runs one batch.
//
// Values from --config are read first; flags given explicitly on the command
// line override them.
func (c *CLI) exportCommand() *cobra.Command {
	opts := newExportOpts()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one image per feature of a layer",
		Example: `  featexport export -l parcels -f PARCEL_ID -o out/
  featexport export -l parcels -f PARCEL_ID -o out/ --mode proportional --extent-scale 120
  featexport export --config batch.toml --format jpg --overwrite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), cfg, opts.listFiles)
		},
	}
	opts.bind(cmd.Flags())
	return cmd
}

func newExportOpts() *exportOpts {
	return &exportOpts{
		cfg: batch.Config{
			ExtentScale: batch.DefaultExtentScale,
			DPI:         batch.DefaultDPI,
			JPEGQuality: batch.DefaultJPEGQuality,
		},
		format: string(batch.DefaultFormat),
		mode:   string(batch.DefaultFillMode),
	}
}

func (o *exportOpts) bind(f *pflag.FlagSet) {
	f.StringVarP(&o.config, "config", "c", "", "batch config file (TOML); flags override its values")
	f.StringVarP(&o.cfg.Layer, "layer", "l", "", "layer to export features from")
	f.StringVarP(&o.cfg.UniqueField, "field", "f", "", "attribute with a unique value per feature; names the output files")
	f.StringVarP(&o.cfg.OutputDir, "out", "o", "", "output directory (created if missing)")
	f.StringVar(&o.mode, "mode", o.mode, "fill (zoom to each feature) or proportional (one common scale)")
	f.Float64Var(&o.cfg.ExtentScale, "extent-scale", o.cfg.ExtentScale, "padding around each feature in percent; 100 = feature extent")
	f.StringVar(&o.format, "format", o.format, "image format: png or jpg")
	f.IntVar(&o.cfg.DPI, "dpi", o.cfg.DPI, "output resolution")
	f.IntVar(&o.cfg.JPEGQuality, "quality", o.cfg.JPEGQuality, "JPEG quality 1-100, 0 selects the default")
	f.BoolVar(&o.cfg.Overwrite, "overwrite", false, "replace existing images")
	f.BoolVar(&o.listFiles, "list", false, "print every written file")
}

// flagFields maps flag names to the config fields they set.
var flagFields = map[string]func(dst *batch.Config, o *exportOpts){
	"layer":        func(d *batch.Config, o *exportOpts) { d.Layer = o.cfg.Layer },
	"field":        func(d *batch.Config, o *exportOpts) { d.UniqueField = o.cfg.UniqueField },
	"out":          func(d *batch.Config, o *exportOpts) { d.OutputDir = o.cfg.OutputDir },
	"mode":         func(d *batch.Config, o *exportOpts) { d.FillMode = batch.FillMode(o.mode) },
	"extent-scale": func(d *batch.Config, o *exportOpts) { d.ExtentScale = o.cfg.ExtentScale },
	"format":       func(d *batch.Config, o *exportOpts) { d.Format = export.Format(o.format) },
	"dpi":          func(d *batch.Config, o *exportOpts) { d.DPI = o.cfg.DPI },
	"quality":      func(d *batch.Config, o *exportOpts) { d.JPEGQuality = o.cfg.JPEGQuality },
	"overwrite":    func(d *batch.Config, o *exportOpts) { d.Overwrite = o.cfg.Overwrite },
}

// resolve merges the config file and the flags into a validated config.
// Without --config every flag applies, defaults included.
func (o *exportOpts) resolve(flags *pflag.FlagSet) (batch.Config, error) {
	var cfg batch.Config
	if o.config != "" {
		md, err := toml.DecodeFile(o.config, &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read batch config %s", o.config)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q in batch config %s", undecoded[0].String(), o.config)
		}
	}
	for name, set := range flagFields {
		if o.config == "" || flags.Changed(name) {
			set(&cfg, o)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *CLI) runExport(ctx context.Context, cfg batch.Config, listFiles bool) error {
	logger := loggerFromContext(ctx)

	h, err := c.openHost(ctx)
	if err != nil {
		return err
	}

	logger.Debug("batch config", "config", cfg.String())
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Reading %s", cfg.Layer))
	hooks := newProgressHooks(spinner)
	observability.SetBatchHooks(hooks)
	defer observability.Reset()

	spinner.Start()
	report, err := batch.NewRunner(h, logger).Run(ctx, cfg)
	if err != nil {
		exported, _ := hooks.counts()
		spinner.StopWithError(fmt.Sprintf("Batch failed after %d exports; map view restored", exported))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Exported features of %s to %s", cfg.Layer, cfg.OutputDir))

	printReport(report, listFiles)
	if report.Skipped > 0 && !cfg.Overwrite {
		printWarning("%d existing images were kept; pass --overwrite to replace them", report.Skipped)
	}
	return nil
}
