package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/varalys/diffgate/internal/gate"
	"github.com/varalys/diffgate/internal/types"
)

// PrintOptions tunes the human-readable renderers.
type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
	LinesScanned int
	// Summary, when set, adds the gate line to the footer.
	Summary *gate.Summary
}

var severityStyles = map[types.Severity]lipgloss.Style{
	types.SevCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
	types.SevHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")),
	types.SevMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	types.SevLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E")),
}

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
)

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	if st, ok := severityStyles[s]; ok {
		return st.Render(string(s))
	}
	return string(s)
}

func location(f types.Finding) string {
	if !f.HasLine() {
		return f.File
	}
	return f.File + ":" + strconv.Itoa(f.Line)
}

// PrintTable renders findings in scan order as a bordered table.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "RULE", "LOCATION", "MATCH", "DESCRIPTION")
		for _, f := range findings {
			row := []string{severityLabel(f.Severity, opts.NoColor), f.Rule, location(f), maskValue(f.Match), f.Description}
			if err := table.Append(row); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(w, findings, opts)
	return nil
}

// PrintText renders one finding per line for logs and narrow terminals.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings ✅")
	} else {
		maxRule := 8
		for _, f := range findings {
			if l := len(f.Rule); l > maxRule {
				maxRule = l
			}
		}
		fmt.Fprintf(w, "Findings: %d\n", len(findings))
		for _, f := range findings {
			sev := fmt.Sprintf("%-8s", f.Severity)
			if !opts.NoColor {
				sev = severityLabel(f.Severity, false) + fmt.Sprintf("%*s", 8-len(f.Severity), "")
			}
			fmt.Fprintf(w, "%s %-*s %s  %s\n", sev, maxRule, f.Rule, location(f), maskValue(f.Match))
		}
	}
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 && opts.Summary == nil {
		return
	}
	c := types.CountFindings(findings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
		len(findings), c[types.SevCritical], c[types.SevHigh], c[types.SevMedium], c[types.SevLow])
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d (%d added lines)\n", opts.FilesScanned, opts.LinesScanned)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if s := opts.Summary; s != nil {
		verdict := "PASS"
		style := passStyle
		if !s.GatePass {
			verdict, style = "FAIL", failStyle
		}
		if !opts.NoColor {
			verdict = style.Render(verdict)
		}
		fmt.Fprintf(w, "Gate: %s (fail on %s and above)\n", verdict, s.FailOn)
	}
}

func maskValue(s string) string {
	r := []rune(s)
	if len(r) <= 8 {
		return "********"
	}
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}
