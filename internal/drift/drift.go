// Package drift compares a saved ruleset snapshot against the live
// registry and reports what changed, in human terms.
package drift

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/wI2L/jsondiff"

	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/registry"
)

// SnapshotSchemaVersion current
const SnapshotSchemaVersion = "1.0"

// Snapshot is an exported ruleset: the full rule records in
// registration order, for after-the-fact drift review.
type Snapshot struct {
	SchemaVersion string        `json:"schema_version"`
	GeneratedAt   string        `json:"generated_at"`
	Rules         []models.Rule `json:"rules"`
}

// TakeSnapshot exports the registry's current state.
func TakeSnapshot(r *registry.Registry) Snapshot {
	snap := Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, id := range r.AllIDs() {
		rule, _ := r.Get(id)
		snap.Rules = append(snap.Rules, rule)
	}
	return snap
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

// Type enum
type Type string

const (
	RuleAdded   Type = "RULE_ADDED"
	RuleRemoved Type = "RULE_REMOVED"
	RuleChanged Type = "RULE_CHANGED"
)

// Item is one detected ruleset change.
type Item struct {
	Type     Type     `json:"type"`
	RuleID   string   `json:"rule_id"`
	Messages []string `json:"messages,omitempty"`
}

// Result details
type Result struct {
	HasDrift bool   `json:"has_drift"`
	Items    []Item `json:"items"`
}

// Compare reports the differences between a saved snapshot and the
// current ruleset.
func Compare(saved *Snapshot, current Snapshot) (*Result, error) {
	result := &Result{Items: []Item{}}

	savedByID := make(map[string]models.Rule, len(saved.Rules))
	for _, rule := range saved.Rules {
		savedByID[rule.ID] = rule
	}
	currentByID := make(map[string]models.Rule, len(current.Rules))
	for _, rule := range current.Rules {
		currentByID[rule.ID] = rule
	}

	// Removed rules: a safety rule silently disappearing is the change
	// most worth flagging.
	for _, rule := range saved.Rules {
		if _, ok := currentByID[rule.ID]; !ok {
			result.Items = append(result.Items, Item{
				Type:     RuleRemoved,
				RuleID:   rule.ID,
				Messages: []string{fmt.Sprintf("Rule [%s] is no longer registered", rule.ID)},
			})
		}
	}

	for _, rule := range current.Rules {
		old, ok := savedByID[rule.ID]
		if !ok {
			result.Items = append(result.Items, Item{
				Type:     RuleAdded,
				RuleID:   rule.ID,
				Messages: []string{fmt.Sprintf("Rule [%s] was added", rule.ID)},
			})
			continue
		}

		patches, err := jsondiff.Compare(old, rule)
		if err != nil {
			return nil, fmt.Errorf("failed to diff rule %s: %w", rule.ID, err)
		}
		if len(patches) == 0 {
			continue
		}
		result.Items = append(result.Items, Item{
			Type:     RuleChanged,
			RuleID:   rule.ID,
			Messages: Translate(patches),
		})
	}

	result.HasDrift = len(result.Items) > 0
	return result, nil
}
