// Package registry holds the authoritative in-memory rule table.
package registry

import (
	"fmt"

	"github.com/cmdguard/cmdguard/internal/models"
)

// Registry maps rule ids to rules. It is built once at session start
// by the rule-definition modules and read-only afterwards; a session
// never mutates it past load, so no locking is needed.
type Registry struct {
	rules map[string]models.Rule
	order []string // first-registration order, for AllIDs
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		rules: make(map[string]models.Rule),
	}
}

// Register inserts or replaces the rule under its id (last wins).
// A block rule without a bypass flag is a configuration error: the
// registry is left unchanged and the error aborts rule loading.
func (r *Registry) Register(rule models.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule has empty id")
	}
	if rule.Command == "" {
		return fmt.Errorf("rule %q has empty command", rule.ID)
	}
	if rule.Message == "" {
		return fmt.Errorf("rule %q has empty message", rule.ID)
	}
	switch rule.Action {
	case models.ActionBlock:
		if rule.BypassFlag == "" {
			return fmt.Errorf("block rule %q has no bypass flag", rule.ID)
		}
	case models.ActionInfo:
		// info rules never block, a bypass flag is meaningless
	default:
		return fmt.Errorf("rule %q has unknown action %q", rule.ID, rule.Action)
	}

	if _, exists := r.rules[rule.ID]; !exists {
		r.order = append(r.order, rule.ID)
	}
	r.rules[rule.ID] = rule
	return nil
}

// Get looks up a rule by id. Absence is an expected outcome, not an
// error; callers treat "no rule" as allow.
func (r *Registry) Get(id string) (models.Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// AllIDs returns every registered id in first-registration order.
func (r *Registry) AllIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len reports the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
