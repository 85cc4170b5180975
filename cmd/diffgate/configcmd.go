package diffgate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/varalys/diffgate/internal/config"
	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/rules"
)

func (a *app) configCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	var (
		output   string
		failOn   string
		exclude  string
		disable  string
		strict   bool
		baseline string
		audit    bool
		example  bool
		force    bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .diffgate.yml with the selected policy",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := gate.ParsePolicy(failOn); err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", output)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			fc := config.FileConfig{
				FailOn:   strPtr(failOn),
				Exclude:  optStrPtr(exclude),
				Disable:  optStrPtr(disable),
				Baseline: optStrPtr(baseline),
			}
			if strict {
				fc.Strict = boolPtr(true)
			}
			if audit {
				fc.Audit = boolPtr(true)
			}
			if example {
				fc.Rules = []rules.Definition{{
					Name:        "internal_hostname",
					Severity:    "HIGH",
					Pattern:     `\.corp\.example\.com\b`,
					Description: "Internal hostname committed",
				}}
			}
			if err := config.Write(output, fc); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Wrote", output)
			return nil
		},
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&output, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().StringVar(&failOn, "fail-on", "critical", "lowest blocking severity")
	initCmd.Flags().StringVar(&exclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().StringVar(&disable, "disable", "", "comma-separated rule IDs to disable")
	initCmd.Flags().BoolVar(&strict, "strict", false, "enable post-match validators")
	initCmd.Flags().StringVar(&baseline, "baseline", "", "baseline file applied on every scan")
	initCmd.Flags().BoolVar(&audit, "audit", false, "record every scan in the audit log")
	initCmd.Flags().BoolVar(&example, "example-rule", false, "include an example custom rule")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cfgCmd
}
