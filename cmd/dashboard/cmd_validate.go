package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/catalog"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/spf13/cobra"
)

// validationReport is the --format json output of validate.
type validationReport struct {
	Datasets string   `json:"datasets"`
	Models   string   `json:"models"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

func newValidateCommand() *cobra.Command {
	var pf projectFlags
	var format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog files and label table for problems",
		Long: `Check the catalog files and label table for problems.

Runs schema validation on both catalog documents, then catalog-wide checks
(unique ids and names, known sections, polarities and sizes, parseable
release dates) and finally the label placements in the project config.

Exits with status 1 when problems are found.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: expected text or json", format)
			}
			p, err := loadProject(pf)
			if err != nil {
				return err
			}

			report, err := validateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			if err := writeValidationReport(cmd.OutOrStdout(), format, report); err != nil {
				return err
			}
			if !report.Valid {
				return &ValidationFailureError{Message: fmt.Sprintf("validation found %d problem(s)", len(report.Problems))}
			}
			return nil
		},
	}

	addProjectFlags(cmd, &pf)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")

	return cmd
}

// validateProject collects every problem instead of stopping at the first.
// It returns an error only when a catalog document cannot be read.
func validateProject(ctx context.Context, p *project) (*validationReport, error) {
	report := &validationReport{
		Datasets: p.datasets.Name(),
		Models:   p.models.Name(),
		Problems: []string{},
	}

	datasetsData, err := readAll(ctx, p.datasets)
	if err != nil {
		return nil, err
	}
	modelsData, err := readAll(ctx, p.models)
	if err != nil {
		return nil, err
	}

	datasets, dErr := catalog.DecodeDatasets(p.datasets.Name(), datasetsData)
	report.Problems = append(report.Problems, problemsOf(dErr)...)
	ms, mErr := catalog.DecodeModels(p.models.Name(), modelsData)
	report.Problems = append(report.Problems, problemsOf(mErr)...)

	if dErr == nil && mErr == nil {
		c := &models.Catalog{Datasets: datasets, Models: ms}
		c.ApplyDefaults()
		report.Problems = append(report.Problems, problemsOf(c.Validate())...)
	}
	report.Problems = append(report.Problems, problemsOf(p.cfg.Labels.Validate())...)

	report.Valid = len(report.Problems) == 0
	return report, nil
}

func readAll(ctx context.Context, src catalog.Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Name(), err)
	}
	defer rc.Close() //nolint:errcheck
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Name(), err)
	}
	return data, nil
}

// problemsOf flattens schema errors and joined errors into one line each.
func problemsOf(err error) []string {
	if err == nil {
		return nil
	}
	var schemaErr *catalog.SchemaError
	if errors.As(err, &schemaErr) {
		out := make([]string, len(schemaErr.Problems))
		for i, p := range schemaErr.Problems {
			out[i] = schemaErr.Source + ": " + p
		}
		return out
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, problemsOf(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

func writeValidationReport(w io.Writer, format string, r *validationReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "Datasets: %s\n", r.Datasets) //nolint:errcheck
	fmt.Fprintf(w, "Models:   %s\n", r.Models)   //nolint:errcheck
	if r.Valid {
		_, err := fmt.Fprintln(w, "✅ Catalog is valid")
		return err
	}
	fmt.Fprintf(w, "❌ %d problem(s):\n", len(r.Problems)) //nolint:errcheck
	for _, p := range r.Problems {
		fmt.Fprintf(w, "  - %s\n", p) //nolint:errcheck
	}
	return nil
}
