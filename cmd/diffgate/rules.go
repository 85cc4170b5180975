package diffgate

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varalys/diffgate/internal/config"
	"github.com/varalys/diffgate/internal/engine"
)

type ruleRow struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func (a *app) rulesCmd() *cobra.Command {
	var asJSON, all bool
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"detectors"},
		Short:   "List the rules a scan applies in catalog order",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := engine.Config{CustomRules: config.CustomRules(a.global, a.local)}
			if !all {
				cfg.EnableRules = pickString("", a.local.Enable, a.global.Enable)
				cfg.DisableRules = pickString("", a.local.Disable, a.global.Disable)
			}
			table, err := engine.BuildTable(cfg)
			if err != nil {
				return err
			}
			rows := make([]ruleRow, 0, table.Len())
			for _, r := range table.Rules() {
				rows = append(rows, ruleRow{Name: r.Name(), Severity: string(r.Severity()), Description: r.Description()})
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			tw := tablewriter.NewWriter(a.stdout)
			tw.Header("RULE", "SEVERITY", "DESCRIPTION")
			for _, r := range rows {
				if err := tw.Append([]string{r.Name, r.Severity, r.Description}); err != nil {
					return err
				}
			}
			if err := tw.Render(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%d rules\n", len(rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&all, "all", false, "ignore enable/disable from config files")
	return cmd
}
