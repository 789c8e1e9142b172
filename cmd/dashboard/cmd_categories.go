package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/justinphan3110cais/cais-ai-dashboard/internal/categories"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/models"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

type categoryJSON struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Datasets []string `json:"datasets"`
}

func newCategoriesCommand() *cobra.Command {
	var pf projectFlags
	var section, format string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the dataset categories of a section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q: expected text or json", format)
			}
			p, err := loadProject(pf)
			if err != nil {
				return err
			}
			if section == "" {
				section = p.cfg.View.Section
			}
			sec, err := models.ParseSection(section)
			if err != nil {
				return err
			}
			snap, err := p.load(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			groups := categories.Group(snap.Catalog.DatasetsIn(sec))
			out := cmd.OutOrStdout()
			if format == "json" {
				items := make([]categoryJSON, 0, len(groups))
				for _, g := range groups {
					items = append(items, categoryJSON{ID: g.ID, Name: g.Name, Datasets: models.DatasetIDs(g.Datasets)})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(groups) == 0 {
				fmt.Fprintf(out, "No datasets in section %s.\n", sec) //nolint:errcheck
				return nil
			}
			width := 0
			for _, g := range groups {
				width = max(width, runewidth.StringWidth(g.Name))
			}
			for _, g := range groups {
				pad := strings.Repeat(" ", width-runewidth.StringWidth(g.Name))
				fmt.Fprintf(out, "%s%s  %s\n", g.Name, pad, strings.Join(models.DatasetIDs(g.Datasets), ", ")) //nolint:errcheck
			}
			return nil
		},
	}

	addProjectFlags(cmd, &pf)
	cmd.Flags().StringVar(&section, "section", "", "Section to list: text | vision | safety (default from config)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")

	return cmd
}
