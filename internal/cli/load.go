package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/registry"
	"github.com/cmdguard/cmdguard/internal/rules"
)

// ruleset flags shared by check, rules and verify.
var (
	ruleFiles   []string
	rulePresets []string
	noBuiltin   bool
)

// addRulesetFlags registers the shared rule-source flags on a command.
func addRulesetFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&ruleFiles, "rules", nil, "Path to a YAML rule file (repeatable, later files override)")
	cmd.Flags().StringArrayVar(&rulePresets, "preset", nil, "Built-in rule preset to load: "+strings.Join(rules.ListPresetNames(), ", "))
	cmd.Flags().BoolVar(&noBuiltin, "no-builtin", false, "Skip the built-in rule set")
}

// buildRuleset loads builtins, then presets, then user rule files, in
// that order so later sources override earlier ones (last wins).
func buildRuleset() (*registry.Registry, *matcher.Set, error) {
	reg := registry.New()
	set := matcher.NewSet()

	if !noBuiltin {
		if err := rules.LoadBuiltin(reg, set); err != nil {
			return nil, nil, fmt.Errorf("failed to load built-in rules: %w", err)
		}
	}
	for _, name := range rulePresets {
		if err := rules.LoadPreset(name, reg, set); err != nil {
			return nil, nil, fmt.Errorf("failed to load preset %q (valid: %s): %w",
				name, strings.Join(rules.ListPresetNames(), ", "), err)
		}
	}
	for _, path := range ruleFiles {
		if err := rules.LoadFile(path, reg, set); err != nil {
			return nil, nil, err
		}
	}
	return reg, set, nil
}
