package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func resetRulesetFlags() {
	ruleFiles = nil
	rulePresets = nil
	noBuiltin = false
}

func TestBuildRulesetBuiltinOnly(t *testing.T) {
	resetRulesetFlags()
	reg, set, err := buildRuleset()
	if err != nil {
		t.Fatalf("buildRuleset failed: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatal("expected built-in rules")
	}
	if id, ok := set.Classify("git", []string{"reset", "--hard"}); !ok || id != "git_reset" {
		t.Errorf("built-in git matcher not wired: (%q, %v)", id, ok)
	}
}

func TestBuildRulesetWithPreset(t *testing.T) {
	resetRulesetFlags()
	rulePresets = []string{"containers"}
	defer resetRulesetFlags()

	reg, set, err := buildRuleset()
	if err != nil {
		t.Fatalf("buildRuleset failed: %v", err)
	}
	if _, ok := reg.Get("docker_prune"); !ok {
		t.Error("containers preset should register docker_prune")
	}
	if id, ok := set.Classify("docker", []string{"system", "prune"}); !ok || id != "docker_prune" {
		t.Errorf("preset matcher not wired: (%q, %v)", id, ok)
	}
}

func TestBuildRulesetUnknownPreset(t *testing.T) {
	resetRulesetFlags()
	rulePresets = []string{"nope"}
	defer resetRulesetFlags()

	if _, _, err := buildRuleset(); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestBuildRulesetUserFileOverrides(t *testing.T) {
	resetRulesetFlags()
	defer resetRulesetFlags()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	src := `
name: local
rules:
  - suffix: GIT_RESET
    command: git
    action: block
    message: house rule, ask first
    bypass: --ask-forgiveness
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ruleFiles = []string{path}

	reg, _, err := buildRuleset()
	if err != nil {
		t.Fatalf("buildRuleset failed: %v", err)
	}
	rule, ok := reg.Get("git_reset")
	if !ok {
		t.Fatal("git_reset missing")
	}
	if rule.BypassFlag != "--ask-forgiveness" {
		t.Errorf("user file should override builtin, got bypass %q", rule.BypassFlag)
	}
}

func TestBuildRulesetBadFileFailsAtLoad(t *testing.T) {
	resetRulesetFlags()
	defer resetRulesetFlags()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	src := `
name: bad
rules:
  - suffix: BROKEN
    command: x
    when: 'args.size('
    action: info
    message: broken
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ruleFiles = []string{path}

	if _, _, err := buildRuleset(); err == nil {
		t.Fatal("expected load-time failure for malformed when expression")
	}
}
