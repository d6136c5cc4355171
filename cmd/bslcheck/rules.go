package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bslcheck/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [code...]",
	Short: "List the diagnostic rule catalog",
	Long:  "Print every rule with its type, severity, parameters and defaults, or only the rules named by code.",
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "table", "output format (table|json|yaml)")
	rulesCmd.Flags().String("tag", "", "show only rules carrying this tag")
	rulesCmd.Flags().Bool("fixable", false, "show only rules that offer quick fixes")
}

type ruleParamView struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Default     any    `json:"default" yaml:"default"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type ruleView struct {
	Code               string          `json:"code" yaml:"code"`
	Name               string          `json:"name" yaml:"name"`
	Type               string          `json:"type" yaml:"type"`
	Severity           string          `json:"severity" yaml:"severity"`
	Level              string          `json:"level" yaml:"level"`
	Scope              string          `json:"scope" yaml:"scope"`
	ModuleKinds        []string        `json:"moduleKinds,omitempty" yaml:"moduleKinds,omitempty"`
	MinCompat          string          `json:"minCompatibility,omitempty" yaml:"minCompatibility,omitempty"`
	MaxCompat          string          `json:"maxCompatibility,omitempty" yaml:"maxCompatibility,omitempty"`
	ActivatedByDefault bool            `json:"activatedByDefault" yaml:"activatedByDefault"`
	Tags               []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	MinutesToFix       int             `json:"minutesToFix" yaml:"minutesToFix"`
	QuickFix           bool            `json:"quickFix" yaml:"quickFix"`
	Params             []ruleParamView `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Description        string          `json:"description,omitempty" yaml:"description,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return fmt.Errorf("failed to get tag flag: %w", err)
	}
	fixable, err := cmd.Flags().GetBool("fixable")
	if err != nil {
		return fmt.Errorf("failed to get fixable flag: %w", err)
	}

	logger, closeLog, err := setupLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()
	eng, err := newEngine(cmd, logger, false)
	if err != nil {
		return err
	}

	views, err := selectRuleViews(eng.AllDescriptors(), args, tag, fixable)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "table":
		color, cerr := useColor(cmd, out)
		if cerr != nil {
			return cerr
		}
		return renderRulesTable(out, views, color)
	case "json":
		return renderRulesJSON(out, views)
	case "yaml":
		return renderRulesYAML(out, views)
	default:
		return fmt.Errorf("unsupported format %q (must be table, json or yaml)", format)
	}
}

// selectRuleViews keeps registry order; unknown codes are an error.
func selectRuleViews(descs []*rules.Descriptor, codes []string, tag string, fixable bool) ([]ruleView, error) {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[strings.ToLower(c)] = false
	}
	views := make([]ruleView, 0, len(descs))
	for _, d := range descs {
		if len(codes) > 0 {
			key := strings.ToLower(d.Code)
			if _, ok := wanted[key]; !ok {
				continue
			}
			wanted[key] = true
		}
		if tag != "" && !hasTag(d, tag) {
			continue
		}
		if fixable && !d.HasFixes() {
			continue
		}
		views = append(views, newRuleView(d))
	}
	for _, c := range codes {
		if !wanted[strings.ToLower(c)] {
			return nil, fmt.Errorf("unknown rule %q", c)
		}
	}
	return views, nil
}

func hasTag(d *rules.Descriptor, tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(string(t), tag) {
			return true
		}
	}
	return false
}

func newRuleView(d *rules.Descriptor) ruleView {
	v := ruleView{
		Code:               d.Code,
		Name:               d.Name,
		Type:               d.Type.String(),
		Severity:           d.Severity.String(),
		Level:              rules.LSPSeverity(d.Type, d.Severity).String(),
		Scope:              d.Scope.String(),
		ActivatedByDefault: d.ActivatedByDefault,
		MinutesToFix:       d.MinutesToFix,
		QuickFix:           d.HasFixes(),
		Description:        d.Description,
	}
	for _, k := range d.ModuleKinds {
		v.ModuleKinds = append(v.ModuleKinds, k.String())
	}
	if !d.MinCompat.IsZero() {
		v.MinCompat = d.MinCompat.String()
	}
	if !d.MaxCompat.IsZero() {
		v.MaxCompat = d.MaxCompat.String()
	}
	for _, t := range d.Tags {
		v.Tags = append(v.Tags, string(t))
	}
	for _, p := range d.Params {
		v.Params = append(v.Params, ruleParamView{
			Name:        p.Name,
			Type:        p.Type.String(),
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return v
}

func renderRulesJSON(out io.Writer, views []ruleView) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func renderRulesYAML(out io.Writer, views []ruleView) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(views); err != nil {
		return err
	}
	return enc.Close()
}

// renderRulesTable prints one row per rule. Ширина считается по ячейкам
// терминала: названия правил кириллические.
func renderRulesTable(out io.Writer, views []ruleView, color bool) error {
	header := []string{"CODE", "TYPE", "SEVERITY", "DEFAULT", "FIX", "NAME"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Code,
			v.Type,
			v.Severity,
			onOff(v.ActivatedByDefault),
			yesNo(v.QuickFix),
			v.Name,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	headStyle := lipgloss.NewStyle()
	if color {
		headStyle = headStyle.Bold(true).Foreground(lipgloss.Color("6"))
	}
	if _, err := fmt.Fprintln(out, headStyle.Render(formatRow(header, widths))); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(out, formatRow(row, widths)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\n%d rule(s)\n", len(rows))
	return err
}

func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			b.WriteString(cell)
			break
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString("  ")
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
