package matcher

// Npm classifies npm invocations worth a nudge or a stop.
type Npm struct{}

func (Npm) RuleIDs() []string {
	return []string{"npm_global", "npm_publish_force"}
}

func (Npm) Classify(args []string) (string, bool) {
	switch subcommand(args) {
	case "install", "i":
		if hasAnyToken(args, "-g", "--global") {
			return "npm_global", true
		}
	case "publish":
		if hasToken(args, "--force") {
			return "npm_publish_force", true
		}
	}
	return "", false
}

// Brew classifies blanket homebrew upgrades.
type Brew struct{}

func (Brew) RuleIDs() []string { return []string{"brew_upgrade_all"} }

func (Brew) Classify(args []string) (string, bool) {
	if subcommand(args) != "upgrade" {
		return "", false
	}
	// A bare "brew upgrade" touches every installed formula.
	seen := 0
	for _, a := range args {
		if len(a) > 0 && a[0] != '-' {
			seen++
		}
	}
	if seen == 1 {
		return "brew_upgrade_all", true
	}
	return "", false
}
