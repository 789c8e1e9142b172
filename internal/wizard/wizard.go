// Package wizard provides the interactive dataset picker behind
// `dashboard select`.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/categories"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"golang.org/x/term"
)

// ErrNoDatasets is returned when the section has nothing to pick from.
var ErrNoDatasets = errors.New("no datasets in section")

// Choice holds everything collected by the picker.
type Choice struct {
	Selection models.Selection
	Size      models.ModelSize
}

// RunSelectionWizard runs an interactive huh form to pick the datasets of
// section and the model size whose points get labels. Leaving every box
// unticked selects all datasets. initial pre-ticks datasets.
func RunSelectionWizard(in io.Reader, out io.Writer, catalog *models.Catalog, section models.Section, initial models.Selection) (*Choice, error) {
	datasets := catalog.DatasetsIn(section)
	if len(datasets) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoDatasets, section)
	}

	picked := initialValues(datasets, initial)
	size := string(models.SizeStandard)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Datasets").
				Description("Tick the benchmarks to average. None ticked means all.").
				Options(datasetOptions(datasets)...).
				Value(&picked),
			huh.NewSelect[string]().
				Title("Labeled size class").
				Options(sizeOptions()...).
				Value(&size),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return choiceFrom(picked, size), nil
}

// datasetOptions lists datasets grouped by category so related benchmarks
// sit together in the picker.
func datasetOptions(datasets []models.Dataset) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, g := range categories.Group(datasets) {
		for _, d := range g.Datasets {
			name := d.Name
			if name == "" {
				name = d.ID
			}
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s · %s", g.Name, name), d.ID))
		}
	}
	return opts
}

func sizeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(models.Sizes))
	for _, s := range models.Sizes {
		opts = append(opts, huh.NewOption(string(s), string(s)))
	}
	return opts
}

func initialValues(datasets []models.Dataset, initial models.Selection) []string {
	var ids []string
	for _, d := range datasets {
		if initial[d.ID] {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

func choiceFrom(picked []string, size string) *Choice {
	sel := make(models.Selection, len(picked))
	for _, id := range picked {
		sel[id] = true
	}
	sz, err := models.ParseModelSize(size)
	if err != nil {
		sz = models.SizeStandard
	}
	return &Choice{Selection: sel, Size: sz}
}
