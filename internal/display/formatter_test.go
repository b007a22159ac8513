package display

import (
	"strings"
	"testing"

	"github.com/cmdguard/cmdguard/internal/models"
)

func TestRenderBlock(t *testing.T) {
	rule := models.Rule{
		ID:      "git_reset",
		Command: "git",
		Action:  models.ActionBlock,
		Message: "git reset --hard permanently discards uncommitted changes.",
		Alternatives: []models.Alternative{
			{Command: "git stash", Comment: "keep the changes recoverable"},
			{Command: "git reset --soft HEAD~1"},
		},
		Verify:     []string{"git status", "git stash list"},
		BypassFlag: "--force-danger",
		DocsURL:    "https://git-scm.com/docs/git-reset",
	}

	out := Render(rule, "git", []string{"reset", "--hard"})

	for _, want := range []string{
		models.DefaultBlockEmoji + " git reset --hard permanently discards uncommitted changes.",
		"Safer alternatives:",
		"git stash   # keep the changes recoverable",
		"git reset --soft HEAD~1",
		"Verify first:",
		"git status",
		"Override: git reset --hard --force-danger",
		"Docs: https://git-scm.com/docs/git-reset",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered message missing %q\n%s", want, out)
		}
	}
}

func TestRenderInfo(t *testing.T) {
	rule := models.Rule{
		ID:      "mv_git",
		Command: "mv",
		Action:  models.ActionInfo,
		Message: "Moving a tracked file? git mv preserves history.",
		Alternatives: []models.Alternative{
			{Command: "git mv <src> <dst>"},
		},
	}

	out := Render(rule, "mv", []string{"a.txt", "b.txt"})

	if !strings.Contains(out, models.DefaultInfoEmoji) {
		t.Error("info rule should render the info glyph by default")
	}
	if !strings.Contains(out, "Try instead:") {
		t.Error("info rule should use the Try instead label")
	}
	if strings.Contains(out, "Override:") {
		t.Error("info rule must not render an override line")
	}
}

func TestRenderNoAlternatives(t *testing.T) {
	rule := models.Rule{
		ID:         "rm_recursive",
		Command:    "rm",
		Action:     models.ActionBlock,
		Message:    "Recursive force delete.",
		BypassFlag: "--yes-i-am-sure",
	}

	out := Render(rule, "rm", []string{"-rf", "build"})
	if strings.Contains(out, "Safer alternatives:") {
		t.Error("no alternatives segment expected")
	}
	if !strings.Contains(out, "Override: rm -rf build --yes-i-am-sure") {
		t.Errorf("override line missing:\n%s", out)
	}
}

func TestRenderCustomEmoji(t *testing.T) {
	rule := models.Rule{
		ID:         "chmod_777",
		Command:    "chmod",
		Action:     models.ActionBlock,
		Message:    "World-writable.",
		BypassFlag: "--insecure-ok",
		Emoji:      "🔓",
	}
	out := Render(rule, "chmod", []string{"777", "x"})
	if !strings.HasPrefix(out, "🔓 ") {
		t.Errorf("custom emoji should lead the message:\n%s", out)
	}
}
