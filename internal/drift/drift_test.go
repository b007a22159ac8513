package drift

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/registry"
	"github.com/cmdguard/cmdguard/internal/rules"
)

func loadedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	set := matcher.NewSet()
	if err := rules.LoadBuiltin(reg, set); err != nil {
		t.Fatalf("LoadBuiltin failed: %v", err)
	}
	return reg
}

func TestSnapshotRoundTrip(t *testing.T) {
	reg := loadedRegistry(t)
	snap := TakeSnapshot(reg)
	if snap.SchemaVersion != SnapshotSchemaVersion {
		t.Errorf("schema version = %q", snap.SchemaVersion)
	}
	if len(snap.Rules) != reg.Len() {
		t.Fatalf("snapshot has %d rules, registry has %d", len(snap.Rules), reg.Len())
	}

	path := filepath.Join(t.TempDir(), "rules.json")
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	result, err := Compare(loaded, snap)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.HasDrift {
		t.Errorf("identical snapshots must not drift: %+v", result.Items)
	}
}

func TestCompareDetectsRemovedAndAdded(t *testing.T) {
	reg := loadedRegistry(t)
	saved := TakeSnapshot(reg)

	current := TakeSnapshot(reg)
	// Drop one rule, add another.
	var trimmed []models.Rule
	for _, r := range current.Rules {
		if r.ID != "git_reset" {
			trimmed = append(trimmed, r)
		}
	}
	trimmed = append(trimmed, models.Rule{
		ID: "new_rule", Command: "x", Action: models.ActionInfo, Message: "m",
	})
	current.Rules = trimmed

	result, err := Compare(&saved, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !result.HasDrift {
		t.Fatal("expected drift")
	}

	types := map[string]Type{}
	for _, item := range result.Items {
		types[item.RuleID] = item.Type
	}
	if types["git_reset"] != RuleRemoved {
		t.Errorf("git_reset should be reported removed, got %q", types["git_reset"])
	}
	if types["new_rule"] != RuleAdded {
		t.Errorf("new_rule should be reported added, got %q", types["new_rule"])
	}
}

func TestCompareTranslatesChanges(t *testing.T) {
	reg := loadedRegistry(t)
	saved := TakeSnapshot(reg)
	current := TakeSnapshot(reg)

	for i, r := range current.Rules {
		if r.ID == "git_reset" {
			r.BypassFlag = "--really"
			r.Message = "new wording"
			current.Rules[i] = r
		}
	}

	result, err := Compare(&saved, current)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Type != RuleChanged {
		t.Fatalf("expected one changed item, got %+v", result.Items)
	}

	var sawCritical, sawDoc bool
	for _, msg := range result.Items[0].Messages {
		if Critical(msg) {
			sawCritical = true
		}
		if msg == "Documentation update." {
			sawDoc = true
		}
	}
	if !sawCritical {
		t.Error("bypass flag change should be flagged critical")
	}
	if !sawDoc {
		t.Error("message change should translate to a documentation update")
	}
}
