package diffgate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varalys/diffgate/internal/engine"
	"github.com/varalys/diffgate/internal/report"
)

func (a *app) baselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines of accepted findings",
	}

	var (
		flags  scanFlags
		output string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Record every finding of the current input as accepted",
		Example: `  git diff origin/main...HEAD | diffgate baseline update
  diffgate baseline update --git-base origin/main --output .diffgate.baseline.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.engineConfig(&flags)
			if err != nil {
				return err
			}
			res, err := engine.Run(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			path := pickString(output, a.local.Baseline, a.global.Baseline)
			if path == "" {
				path = defaultBaselineFile
			}
			path = inRoot(cfg.Root, path)
			if err := report.SaveBaseline(path, res.Findings); err != nil {
				return fmt.Errorf("save baseline: %w", err)
			}
			fmt.Fprintf(a.stdout, "Baseline updated: %d finding(s) recorded in %s\n", len(res.Findings), path)
			return nil
		},
	}
	flags.register(update)
	update.Flags().StringVarP(&output, "output", "o", "", "baseline file (default "+defaultBaselineFile+")")

	cmd.AddCommand(update)
	return cmd
}
