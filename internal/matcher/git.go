package matcher

// Git classifies dangerous git invocations. Checks run in a fixed
// order so that at most one id is produced per invocation.
type Git struct{}

func (Git) RuleIDs() []string {
	return []string{
		"git_reset",
		"git_push_force",
		"git_clean",
		"git_branch_delete",
		"git_stash_drop",
		"git_checkout_discard",
	}
}

func (Git) Classify(args []string) (string, bool) {
	switch subcommand(args) {
	case "reset":
		if hasToken(args, "--hard") {
			return "git_reset", true
		}
	case "push":
		// --force-with-lease is the sanctioned form, leave it alone
		if hasAnyToken(args, "--force", "-f") && !hasToken(args, "--force-with-lease") {
			return "git_push_force", true
		}
	case "clean":
		if hasAnyToken(args, "-f", "-fd", "-fdx", "-df", "--force") {
			return "git_clean", true
		}
	case "branch":
		if hasToken(args, "-D") {
			return "git_branch_delete", true
		}
	case "stash":
		if next := secondSubcommand(args); next == "drop" || next == "clear" {
			return "git_stash_drop", true
		}
	case "checkout":
		if hasToken(args, "--") {
			return "git_checkout_discard", true
		}
	}
	return "", false
}

// secondSubcommand returns the second non-flag argument, or "".
func secondSubcommand(args []string) string {
	seen := 0
	for _, a := range args {
		if len(a) > 0 && a[0] != '-' {
			seen++
			if seen == 2 {
				return a
			}
		}
	}
	return ""
}
