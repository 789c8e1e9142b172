package main

import (
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/selection"
	"github.com/justinphan3110cais/cais-ai-dashboard/internal/wizard"
	"github.com/spf13/cobra"
)

func newSelectCommand() *cobra.Command {
	var pf projectFlags
	var vf viewFlags
	var initial []string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick datasets interactively, then print the resulting view",
		Long: `Pick datasets interactively, then print the resulting view.

Datasets are listed by category. Ticking none selects all of them. The size
class chosen in the form decides which points get labels.`,
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

			choice, err := wizard.RunSelectionWizard(cmd.InOrStdin(), cmd.ErrOrStderr(), snap.Catalog, req.Section, selection.Parse(initial))
			if err != nil {
				return err
			}
			req.Selection = choice.Selection
			req.Size = choice.Size
			return renderView(cmd, p, snap, req, vf)
		},
	}

	addProjectFlags(cmd, &pf)
	addViewFlags(cmd, &vf)
	cmd.Flags().StringSliceVar(&initial, "select", nil, "Dataset ids to pre-tick in the picker")

	return cmd
}
