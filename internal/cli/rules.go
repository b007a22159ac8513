package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmdguard/cmdguard/internal/display"
	"github.com/cmdguard/cmdguard/internal/drift"
	"github.com/cmdguard/cmdguard/internal/models"
)

// rulesCmd group
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and export the loaded rule set",
}

var rulesListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List every loaded rule",
	SilenceUsage: true,
	RunE:         runRulesList,
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the rule set as a JSON snapshot",
	Long: `Export writes the full rule set, in registration order, as a JSON
snapshot suitable for later drift comparison with "rules diff".`,
	SilenceUsage: true,
	RunE:         runRulesExport,
}

var rulesExplainCmd = &cobra.Command{
	Use:          "explain <id>",
	Short:        "Show one rule in full, including its rendered message",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runRulesExplain,
}

var rulesDiffCmd = &cobra.Command{
	Use:   "diff <snapshot.json>",
	Short: "Compare the loaded rule set against a saved snapshot",
	Long: `Diff reports which rules were added, removed or changed since the
snapshot was exported. Exit 1 when drift is detected.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runRulesDiff,
}

var (
	exportOutput string
	explainJSON  bool
)

func init() {
	for _, c := range []*cobra.Command{rulesListCmd, rulesExportCmd, rulesExplainCmd, rulesDiffCmd} {
		addRulesetFlags(c)
		rulesCmd.AddCommand(c)
	}
	rulesExportCmd.Flags().StringVar(&exportOutput, "output", "", "Write snapshot to file (default: stdout)")
	rulesExplainCmd.Flags().BoolVar(&explainJSON, "json", false, "Output the rule record as JSON")
}

// GetRulesCmd export
func GetRulesCmd() *cobra.Command {
	return rulesCmd
}

func runRulesList(cmd *cobra.Command, args []string) error {
	reg, _, err := buildRuleset()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tACTION\tLEVEL\tBYPASS")
	for _, id := range reg.AllIDs() {
		rule, _ := reg.Get(id)
		level := string(rule.Level)
		if level == "" {
			level = "-"
		}
		bypass := rule.BypassFlag
		if bypass == "" {
			bypass = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rule.ID, rule.Command, rule.Action, level, bypass)
	}
	return w.Flush()
}

func runRulesExport(cmd *cobra.Command, args []string) error {
	reg, _, err := buildRuleset()
	if err != nil {
		return err
	}

	snap := drift.TakeSnapshot(reg)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Printf("Snapshot written to %s (%d rules)\n", exportOutput, len(snap.Rules))
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runRulesExplain(cmd *cobra.Command, args []string) error {
	reg, _, err := buildRuleset()
	if err != nil {
		return err
	}

	id := models.NormalizeSuffix(args[0])
	rule, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("unknown rule id: %s (see `cmdguard rules list`)", id)
	}

	if explainJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rule)
	}

	fmt.Printf("%s%s%s  (%s, %s)\n", colorBold, rule.ID, colorReset, rule.Command, rule.Action)
	if rule.MatchPattern != "" {
		fmt.Printf("Pattern: %s\n", rule.MatchPattern)
	}
	fmt.Println(strings.Repeat("-", 50))
	fmt.Print(display.Render(rule, rule.Command, nil))
	return nil
}

func runRulesDiff(cmd *cobra.Command, args []string) error {
	saved, err := drift.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	reg, _, err := buildRuleset()
	if err != nil {
		return err
	}

	result, err := drift.Compare(saved, drift.TakeSnapshot(reg))
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	if !result.HasDrift {
		fmt.Printf("%s✓ No changes — rule set matches snapshot%s\n", colorGreen, colorReset)
		return nil
	}

	for _, item := range result.Items {
		fmt.Printf("%s%s%s %s\n", colorYellow, item.Type, colorReset, item.RuleID)
		for _, msg := range item.Messages {
			if drift.Critical(msg) {
				fmt.Printf("  %s%s%s\n", colorRed, msg, colorReset)
			} else {
				fmt.Printf("  %s\n", msg)
			}
		}
	}

	teardownObservability(cmd, args)
	os.Exit(ExitError)
	return nil
}
