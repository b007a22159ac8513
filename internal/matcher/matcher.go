// Package matcher classifies intercepted invocations into rule ids.
//
// Classification is a pure function of (command, args): matchers hold
// no state and touch nothing outside their inputs, so the engine's
// determinism property holds by construction.
package matcher

// Matcher is the per-command-family classification logic. Classify
// returns the first rule id whose pattern applies, or ok=false when
// none does. RuleIDs declares every id the matcher can produce, for
// the registry consistency check.
type Matcher interface {
	Classify(args []string) (ruleID string, ok bool)
	RuleIDs() []string
}

// Set routes invocations to the matcher registered for their command
// name. Order of registration per command is evaluation order, which
// keeps first-match-wins deterministic.
type Set struct {
	byCommand map[string][]Matcher
	commands  []string
}

// NewSet returns an empty matcher set.
func NewSet() *Set {
	return &Set{byCommand: make(map[string][]Matcher)}
}

// Add registers a matcher for a command name. Multiple matchers per
// command are consulted in Add order.
func (s *Set) Add(command string, m Matcher) {
	if _, exists := s.byCommand[command]; !exists {
		s.commands = append(s.commands, command)
	}
	s.byCommand[command] = append(s.byCommand[command], m)
}

// Classify runs the matchers registered for the command, first match
// wins. ok=false means no rule applies and the invocation is allowed.
func (s *Set) Classify(command string, args []string) (string, bool) {
	for _, m := range s.byCommand[command] {
		if id, ok := m.Classify(args); ok {
			return id, true
		}
	}
	return "", false
}

// RuleIDs returns every id any matcher in the set can produce, in
// deterministic command-then-matcher order.
func (s *Set) RuleIDs() []string {
	var ids []string
	for _, cmd := range s.commands {
		for _, m := range s.byCommand[cmd] {
			ids = append(ids, m.RuleIDs()...)
		}
	}
	return ids
}

// Func adapts a classification function plus its declared ids into a
// Matcher.
type Func struct {
	IDs []string
	Fn  func(args []string) (string, bool)
}

func (f Func) Classify(args []string) (string, bool) { return f.Fn(args) }
func (f Func) RuleIDs() []string                     { return f.IDs }

// hasToken reports whether args contains tok as an exact element.
func hasToken(args []string, tok string) bool {
	for _, a := range args {
		if a == tok {
			return true
		}
	}
	return false
}

// hasAnyToken reports whether args contains any of toks exactly.
func hasAnyToken(args []string, toks ...string) bool {
	for _, t := range toks {
		if hasToken(args, t) {
			return true
		}
	}
	return false
}

// subcommand returns the first non-flag argument, or "".
func subcommand(args []string) string {
	for _, a := range args {
		if len(a) > 0 && a[0] != '-' {
			return a
		}
	}
	return ""
}
