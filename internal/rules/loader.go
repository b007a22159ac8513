package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/registry"
)

// Parse decodes a YAML rule file.
func Parse(data []byte) (*models.RuleFile, error) {
	var file models.RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	for i, spec := range file.Rules {
		if spec.Suffix == "" {
			return nil, fmt.Errorf("rule file %q: rule %d has no suffix", file.Name, i)
		}
	}
	return &file, nil
}

// Apply registers a parsed rule file on top of the current registry
// and matcher set. YAML rules with a `when` expression get a CEL
// matcher bound to their command; rules without one must override an
// id some existing matcher already produces, otherwise the rule could
// never fire and the file is rejected at load time.
func Apply(file *models.RuleFile, r *registry.Registry, set *matcher.Set) error {
	known := make(map[string]bool)
	for _, id := range set.RuleIDs() {
		known[id] = true
	}

	var exprs []matcher.CELExpr
	idsByCommand := make(map[string][]string)
	var commandOrder []string

	for _, spec := range file.Rules {
		rule := spec.Rule()
		if err := r.Register(rule); err != nil {
			return fmt.Errorf("rule file %q: %w", file.Name, err)
		}

		if spec.When == "" {
			if !known[rule.ID] {
				return fmt.Errorf("rule file %q: rule %s has no `when` expression and no existing matcher produces it", file.Name, rule.ID)
			}
			continue
		}

		exprs = append(exprs, matcher.CELExpr{
			RuleID:  rule.ID,
			Command: rule.Command,
			Expr:    spec.When,
		})
		if _, seen := idsByCommand[rule.Command]; !seen {
			commandOrder = append(commandOrder, rule.Command)
		}
		idsByCommand[rule.Command] = append(idsByCommand[rule.Command], rule.ID)
	}

	if len(exprs) == 0 {
		return nil
	}

	cm, err := matcher.NewCEL(exprs)
	if err != nil {
		return fmt.Errorf("rule file %q: %w", file.Name, err)
	}
	for _, cmd := range commandOrder {
		set.Add(cmd, cm.Bind(cmd, idsByCommand[cmd]))
	}
	return nil
}

// LoadFile parses and applies a rule file from disk.
func LoadFile(path string, r *registry.Registry, set *matcher.Set) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rule file: %w", err)
	}
	file, err := Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return Apply(file, r, set)
}
