package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/catalog"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/engine"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/projectconfig"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/reporting"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/selection"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// viewFlags are the flags shared by commands that render a view.
type viewFlags struct {
	section string
	size    string
	narrow  string
	format  string
	output  string
}

func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVar(&f.section, "section", "", "Section to show: text | vision | safety (default from config)")
	cmd.Flags().StringVar(&f.size, "size", "", "Size class whose points get labels: standard | mini | nano (default from config)")
	cmd.Flags().StringVar(&f.narrow, "narrow", "auto", "Narrow viewport label strategy: auto | true | false")
	cmd.Flags().StringVar(&f.format, "format", "table", "Output format: table | json | markdown | html")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the report to a file instead of stdout")
}

func newViewCommand() *cobra.Command {
	var pf projectFlags
	var vf viewFlags
	var selected []string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the leaderboard, frontier and labels for a dataset selection",
		Long: `Print the leaderboard, frontier and labels for a dataset selection.

Each model's score is the average over the selected datasets. Models missing
any selected score are listed but not ranked. Selecting no dataset is the
same as selecting every dataset of the section.

Examples:
  dashboard view
  dashboard view --select hle,swe-bench --format markdown
  dashboard view --section vision --narrow true --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProject(pf)
			if err != nil {
				return err
			}
			snap, err := p.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			req, err := vf.request(p.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			req.Selection = selection.Parse(selected)
			return renderView(cmd, p, snap, req, vf)
		},
	}

	addProjectFlags(cmd, &pf)
	addViewFlags(cmd, &vf)
	cmd.Flags().StringSliceVar(&selected, "select", nil, "Dataset ids to average (comma-separated or repeated; default all)")

	return cmd
}

// request builds an engine request from flags, falling back to config.
func (f viewFlags) request(cfg *projectconfig.ProjectConfig, out io.Writer) (engine.Request, error) {
	sectionRaw := cfg.View.Section
	if f.section != "" {
		sectionRaw = f.section
	}
	section, err := models.ParseSection(sectionRaw)
	if err != nil {
		return engine.Request{}, err
	}

	sizeRaw := cfg.View.Size
	if f.size != "" {
		sizeRaw = f.size
	}
	size, err := models.ParseModelSize(sizeRaw)
	if err != nil {
		return engine.Request{}, err
	}

	narrow, err := resolveNarrow(f.narrow, out, cfg.View.NarrowWidth)
	if err != nil {
		return engine.Request{}, err
	}

	return engine.Request{Section: section, Size: size, Narrow: narrow}, nil
}

// resolveNarrow interprets --narrow. In auto mode a terminal narrower than
// threshold columns is narrow; anything that is not a terminal is wide.
func resolveNarrow(mode string, out io.Writer, threshold int) (bool, error) {
	if strings.EqualFold(mode, "auto") || mode == "" {
		f, ok := out.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return false, nil
		}
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			return false, nil
		}
		return width < threshold, nil
	}
	narrow, err := strconv.ParseBool(mode)
	if err != nil {
		return false, fmt.Errorf("invalid --narrow value %q: expected auto, true or false", mode)
	}
	return narrow, nil
}

func renderView(cmd *cobra.Command, p *project, snap *catalog.Snapshot, req engine.Request, vf viewFlags) error {
	format, err := reporting.ParseFormat(vf.format)
	if err != nil {
		return err
	}

	view := p.engine(slog.Default()).View(snap.Version, snap.Catalog, req)

	if vf.output == "" {
		return reporting.Write(cmd.OutOrStdout(), format, view)
	}
	f, err := os.Create(vf.output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := reporting.Write(f, format, view); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", vf.output) //nolint:errcheck
	return nil
}
