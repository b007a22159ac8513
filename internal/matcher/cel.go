package matcher

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
)

// CEL evaluates YAML-declared rule expressions. Each expression sees
// the variables command (string), args (list of string) and argline
// (args joined with spaces) and must return a boolean. Expressions
// compile at construction, so a bad rule file fails at load time, not
// at match time.
type CEL struct {
	entries []celEntry
}

type celEntry struct {
	ruleID  string
	program cel.Program
}

// NewCEL builds a matcher from (ruleID, expression) pairs in order.
func NewCEL(exprs []CELExpr) (*CEL, error) {
	env, err := cel.NewEnv(
		cel.Variable("command", cel.StringType),
		cel.Variable("args", cel.ListType(cel.StringType)),
		cel.Variable("argline", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	m := &CEL{}
	for _, e := range exprs {
		ast, issues := env.Compile(e.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %q: CEL compile error: %w", e.RuleID, issues.Err())
		}
		if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
			return nil, fmt.Errorf("rule %q: expression must return bool, got %s", e.RuleID, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: CEL program error: %w", e.RuleID, err)
		}
		m.entries = append(m.entries, celEntry{ruleID: e.RuleID, program: prg})
	}
	return m, nil
}

// CELExpr pairs a rule id with its classification expression.
type CELExpr struct {
	RuleID  string
	Command string
	Expr    string
}

func (m *CEL) RuleIDs() []string {
	ids := make([]string, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.ruleID
	}
	return ids
}

// ClassifyCommand evaluates the expressions in declaration order with
// the full invocation visible; first true expression wins.
func (m *CEL) ClassifyCommand(command string, args []string) (string, bool) {
	input := map[string]any{
		"command": command,
		"args":    args,
		"argline": strings.Join(args, " "),
	}
	for _, e := range m.entries {
		out, _, err := e.program.Eval(input)
		if err != nil {
			// An eval error on one expression must not mask later rules.
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return e.ruleID, true
		}
	}
	return "", false
}

// boundCEL narrows a shared CEL matcher to one command name so it can
// live in a Set alongside the hand-written family matchers. Only the
// entries whose ids were bound are evaluated.
type boundCEL struct {
	command string
	inner   *CEL
	ids     []string
	idSet   map[string]bool
}

// Bind returns a Matcher view of m for one command name, declaring
// only the ids whose specs target that command.
func (m *CEL) Bind(command string, ids []string) Matcher {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	return boundCEL{command: command, inner: m, ids: ids, idSet: idSet}
}

func (b boundCEL) Classify(args []string) (string, bool) {
	input := map[string]any{
		"command": b.command,
		"args":    args,
		"argline": strings.Join(args, " "),
	}
	for _, e := range b.inner.entries {
		if !b.idSet[e.ruleID] {
			continue
		}
		out, _, err := e.program.Eval(input)
		if err != nil {
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return e.ruleID, true
		}
	}
	return "", false
}

func (b boundCEL) RuleIDs() []string { return b.ids }
