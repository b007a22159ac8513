// Package rules holds the rule-definition modules: the built-in rule
// set registered in Go, the YAML rule-file loader, and the embedded
// presets. Rules are loaded once at session start; the registry is
// rebuilt on the next session.
package rules

import (
	"fmt"

	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/registry"
)

// reg is the single registration primitive: one call per rule. The
// suffix is the human-authored key; the stored id is its normalized
// form.
func reg(r *registry.Registry, suffix string, rule models.Rule) error {
	rule.ID = models.NormalizeSuffix(suffix)
	if err := r.Register(rule); err != nil {
		return fmt.Errorf("failed to register rule %s: %w", suffix, err)
	}
	return nil
}

// LoadBuiltin registers the built-in rules and their command-family
// matchers. Returns an error only on a configuration defect, which
// aborts rule loading.
func LoadBuiltin(r *registry.Registry, set *matcher.Set) error {
	if err := loadGitRules(r); err != nil {
		return err
	}
	if err := loadFilesystemRules(r); err != nil {
		return err
	}
	if err := loadPackageRules(r); err != nil {
		return err
	}

	set.Add("git", matcher.Git{})
	set.Add("rm", matcher.Rm{})
	set.Add("chmod", matcher.Chmod{})
	set.Add("mv", matcher.Mv{})
	set.Add("npm", matcher.Npm{})
	set.Add("brew", matcher.Brew{})
	return nil
}

func loadGitRules(r *registry.Registry) error {
	if err := reg(r, "GIT_RESET", models.Rule{
		Command:      "git",
		MatchPattern: "reset --hard",
		Action:       models.ActionBlock,
		Level:        models.LevelCritical,
		Message:      "git reset --hard permanently discards all uncommitted changes.",
		Alternatives: []models.Alternative{
			{Command: "git stash", Comment: "keep the changes recoverable"},
			{Command: "git reset --soft HEAD~1", Comment: "undo the commit, keep the work"},
			{Command: "git restore <file>", Comment: "discard one file deliberately"},
		},
		Verify:     []string{"git status", "git stash list"},
		BypassFlag: "--force-danger",
		DocsURL:    "https://git-scm.com/docs/git-reset",
	}); err != nil {
		return err
	}

	if err := reg(r, "GIT_PUSH_FORCE", models.Rule{
		Command:      "git",
		MatchPattern: "push --force / -f",
		Action:       models.ActionBlock,
		Level:        models.LevelCritical,
		Message:      "Force push rewrites remote history and can destroy collaborators' work.",
		Alternatives: []models.Alternative{
			{Command: "git push --force-with-lease", Comment: "fails if the remote moved"},
		},
		Verify:     []string{"git log --oneline origin/HEAD..HEAD"},
		BypassFlag: "--force-danger",
		AIWarning:  "Do not force push shared branches. If you did not personally verify the remote state, stop.",
	}); err != nil {
		return err
	}

	if err := reg(r, "GIT_CLEAN", models.Rule{
		Command:      "git",
		MatchPattern: "clean -f",
		Action:       models.ActionBlock,
		Level:        models.LevelWarning,
		Message:      "git clean -f deletes untracked files with no way back.",
		Alternatives: []models.Alternative{
			{Command: "git clean -n", Comment: "dry run first"},
			{Command: "git stash -u", Comment: "stash untracked files instead"},
		},
		BypassFlag: "--force-danger",
	}); err != nil {
		return err
	}

	if err := reg(r, "GIT_BRANCH_DELETE", models.Rule{
		Command:      "git",
		MatchPattern: "branch -D",
		Action:       models.ActionBlock,
		Level:        models.LevelWarning,
		Message:      "branch -D discards unmerged commits on the branch.",
		Alternatives: []models.Alternative{
			{Command: "git branch -d <name>", Comment: "refuses if unmerged"},
		},
		Verify:     []string{"git log --oneline <name> --not HEAD"},
		BypassFlag: "--force-danger",
	}); err != nil {
		return err
	}

	if err := reg(r, "GIT_STASH_DROP", models.Rule{
		Command:      "git",
		MatchPattern: "stash drop / stash clear",
		Action:       models.ActionBlock,
		Level:        models.LevelWarning,
		Message:      "Dropped stashes are gone; clear removes every stash at once.",
		Alternatives: []models.Alternative{
			{Command: "git stash show -p", Comment: "inspect before dropping"},
			{Command: "git stash branch <name>", Comment: "turn the stash into a branch"},
		},
		BypassFlag: "--force-danger",
	}); err != nil {
		return err
	}

	return reg(r, "GIT_CHECKOUT_DISCARD", models.Rule{
		Command:      "git",
		MatchPattern: "checkout -- <path>",
		Action:       models.ActionInfo,
		Level:        models.LevelNotice,
		Message:      "checkout -- discards local changes to those paths.",
		Alternatives: []models.Alternative{
			{Command: "git restore <path>", Comment: "same effect, clearer intent"},
			{Command: "git stash push <path>", Comment: "recoverable"},
		},
	})
}

func loadFilesystemRules(r *registry.Registry) error {
	if err := reg(r, "RM_RECURSIVE", models.Rule{
		Command:      "rm",
		MatchPattern: "-rf / -r -f",
		Action:       models.ActionBlock,
		Level:        models.LevelCritical,
		Message:      "Recursive force delete. There is no trash can on this path.",
		Alternatives: []models.Alternative{
			{Command: "trash <path>", Comment: "recoverable delete"},
			{Command: "rm -ri <path>", Comment: "interactive, per file"},
		},
		Verify:     []string{"ls -la <path>"},
		BypassFlag: "--yes-i-am-sure",
		AIWarning:  "Never expand globs or variables into rm -rf without printing the resolved paths first.",
	}); err != nil {
		return err
	}

	if err := reg(r, "CHMOD_777", models.Rule{
		Command:      "chmod",
		MatchPattern: "777 / a+rwx",
		Action:       models.ActionBlock,
		Level:        models.LevelWarning,
		Message:      "chmod 777 makes the path world-writable.",
		Alternatives: []models.Alternative{
			{Command: "chmod 755 <path>", Comment: "executable, not writable by others"},
			{Command: "chmod 644 <path>", Comment: "plain files"},
		},
		BypassFlag: "--insecure-ok",
	}); err != nil {
		return err
	}

	return reg(r, "MV_GIT", models.Rule{
		Command:      "mv",
		MatchPattern: "mv <src> <dst>",
		Action:       models.ActionInfo,
		Level:        models.LevelNotice,
		Message:      "Moving a tracked file? git mv preserves history.",
		Alternatives: []models.Alternative{
			{Command: "git mv <src> <dst>"},
		},
	})
}

func loadPackageRules(r *registry.Registry) error {
	if err := reg(r, "NPM_GLOBAL", models.Rule{
		Command:      "npm",
		MatchPattern: "install -g",
		Action:       models.ActionInfo,
		Level:        models.LevelNotice,
		Message:      "Global npm installs drift outside the project lockfile.",
		Alternatives: []models.Alternative{
			{Command: "npx <pkg>", Comment: "run without installing"},
			{Command: "npm install --save-dev <pkg>", Comment: "pin in the project"},
		},
	}); err != nil {
		return err
	}

	if err := reg(r, "NPM_PUBLISH_FORCE", models.Rule{
		Command:      "npm",
		MatchPattern: "publish --force",
		Action:       models.ActionBlock,
		Level:        models.LevelCritical,
		Message:      "Force publish overwrites a released version for everyone downstream.",
		BypassFlag:   "--force-danger",
	}); err != nil {
		return err
	}

	return reg(r, "BREW_UPGRADE_ALL", models.Rule{
		Command:      "brew",
		MatchPattern: "upgrade (no formula)",
		Action:       models.ActionInfo,
		Level:        models.LevelNotice,
		Message:      "A bare brew upgrade touches every installed formula.",
		Alternatives: []models.Alternative{
			{Command: "brew upgrade <formula>", Comment: "upgrade one thing at a time"},
			{Command: "brew outdated", Comment: "see what would change"},
		},
	})
}
