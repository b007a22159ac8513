package matcher

// Rm classifies destructive rm invocations.
type Rm struct{}

func (Rm) RuleIDs() []string { return []string{"rm_recursive"} }

func (Rm) Classify(args []string) (string, bool) {
	combined := hasAnyToken(args, "-rf", "-fr", "-Rf", "-fR", "-rfv", "-frv")
	split := hasAnyToken(args, "-r", "-R", "--recursive") && hasAnyToken(args, "-f", "--force")
	if combined || split {
		return "rm_recursive", true
	}
	return "", false
}

// Chmod classifies world-writable permission grants.
type Chmod struct{}

func (Chmod) RuleIDs() []string { return []string{"chmod_777"} }

func (Chmod) Classify(args []string) (string, bool) {
	if hasAnyToken(args, "777", "a+rwx") {
		return "chmod_777", true
	}
	return "", false
}

// Mv nudges toward git mv; every plain mv gets the tip.
type Mv struct{}

func (Mv) RuleIDs() []string { return []string{"mv_git"} }

func (Mv) Classify(args []string) (string, bool) {
	// Need at least a source and a destination for the tip to apply.
	nonFlags := 0
	for _, a := range args {
		if len(a) > 0 && a[0] != '-' {
			nonFlags++
		}
	}
	if nonFlags >= 2 {
		return "mv_git", true
	}
	return "", false
}
