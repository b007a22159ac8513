package models

// RuleFile is the YAML rule-definition document: a named set of rule
// specs loaded at session start alongside the built-in rules.
type RuleFile struct {
	Name  string     `yaml:"name"`
	Rules []RuleSpec `yaml:"rules"`
}

// RuleSpec is one YAML-declared rule. Suffix is the human-authored key
// ("GIT_RESET"); When is an optional CEL expression over the variables
// command (string), args (list of string) and argline (string) that
// classifies an invocation as matching this rule.
type RuleSpec struct {
	Suffix       string        `yaml:"suffix"`
	Command      string        `yaml:"command"`
	Pattern      string        `yaml:"pattern,omitempty"`
	When         string        `yaml:"when,omitempty"`
	Action       Action        `yaml:"action"`
	Level        Level         `yaml:"level,omitempty"`
	Message      string        `yaml:"message"`
	Alternatives []Alternative `yaml:"alternatives,omitempty"`
	Bypass       string        `yaml:"bypass,omitempty"`
	Verify       []string      `yaml:"verify,omitempty"`
	AIWarning    string        `yaml:"ai_warning,omitempty"`
	Docs         string        `yaml:"docs,omitempty"`
	Emoji        string        `yaml:"emoji,omitempty"`
}

// Rule converts a spec into the registry record form.
func (s RuleSpec) Rule() Rule {
	return Rule{
		ID:           NormalizeSuffix(s.Suffix),
		Command:      s.Command,
		MatchPattern: s.Pattern,
		Action:       s.Action,
		Level:        s.Level,
		Message:      s.Message,
		Alternatives: s.Alternatives,
		BypassFlag:   s.Bypass,
		Verify:       s.Verify,
		AIWarning:    s.AIWarning,
		DocsURL:      s.Docs,
		Emoji:        s.Emoji,
	}
}
