package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/featexport/pkg/catalog"
	"github.com/matzehuels/featexport/pkg/errors"
	"github.com/matzehuels/featexport/pkg/host/memhost"
)

// fieldsCommand lists the attribute fields of a layer and whether each one
// could serve as the unique field of a batch.
func (c *CLI) fieldsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "fields <layer>",
		Short: "List the attribute fields of a layer",
		Long: `List the attribute fields of a layer.

Each field is checked the way export would check it: values must be unique
and must still be unique once turned into file names. With --pick an
interactive list opens and the chosen field name is printed to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFields(cmd.Context(), args[0], pick)
		},
	}
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "choose a field interactively and print its name")
	return cmd
}

// fieldInfo describes one attribute field of a layer.
type fieldInfo struct {
	Name     string
	Features int
	Problem  string // empty when the field can name output files
}

func (f fieldInfo) Usable() bool { return f.Problem == "" }

func (c *CLI) runFields(ctx context.Context, layer string, pick bool) error {
	h, err := c.openHost(ctx)
	if err != nil {
		return err
	}
	infos, err := describeFields(ctx, h, layer)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		printWarning("layer %s has no attribute fields", layer)
		return nil
	}

	if !pick {
		rows := make([][]string, len(infos))
		for i, f := range infos {
			count, status := fmt.Sprint(f.Features), "usable"
			if !f.Usable() {
				count, status = "-", f.Problem
			}
			rows[i] = []string{f.Name, count, status}
		}
		fmt.Fprintln(out, renderTable([]string{"Field", "Features", "Unique field"}, rows))
		return nil
	}

	m, err := tea.NewProgram(newFieldListModel(layer, infos), tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if sel := m.(fieldListModel).Selected; sel != nil {
		fmt.Fprintln(out, sel.Name)
	}
	return nil
}

// describeFields runs the catalog checks for every field of layer.
func describeFields(ctx context.Context, h *memhost.Host, layer string) ([]fieldInfo, error) {
	names, err := h.Fields(layer)
	if err != nil {
		return nil, err
	}
	infos := make([]fieldInfo, 0, len(names))
	for _, name := range names {
		info := fieldInfo{Name: name}
		if verr := errors.ValidateFieldName(name); verr != nil {
			info.Problem = "not a valid field name"
			infos = append(infos, info)
			continue
		}
		records, err := catalog.Build(ctx, h, layer, name)
		switch {
		case errors.Is(err, errors.ErrCodeDuplicateLabel):
			info.Problem = "duplicate values"
		case errors.Is(err, errors.ErrCodeDuplicateFilename):
			info.Problem = "file names collide"
		case err != nil:
			return nil, err
		}
		info.Features = len(records)
		infos = append(infos, info)
	}
	return infos, nil
}
