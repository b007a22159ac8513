// Package engine classifies intercepted invocations against the rule
// registry and applies the bypass protocol.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmdguard/cmdguard/internal/audit"
	"github.com/cmdguard/cmdguard/internal/display"
	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/observability/logging"
	"github.com/cmdguard/cmdguard/internal/registry"
)

// ErrEmptyCommand marks a host integration bug: the interceptor must
// never hand the engine an empty command name.
var ErrEmptyCommand = errors.New("empty command name")

// Engine wires the registry, the matcher set and the audit sink into
// one Decide entry point. Construct once per session.
type Engine struct {
	registry *registry.Registry
	matchers *matcher.Set
	sink     audit.Sink
	out      io.Writer // tips (info rules)
	errOut   io.Writer // block messages
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets the tip and block message streams.
func WithOutput(out, errOut io.Writer) Option {
	return func(e *Engine) {
		e.out = out
		e.errOut = errOut
	}
}

// WithAuditSink sets the audit sink.
func WithAuditSink(s audit.Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// New builds an engine over a loaded registry and matcher set.
func New(reg *registry.Registry, matchers *matcher.Set, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		matchers: matchers,
		sink:     audit.Discard{},
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide classifies one invocation. It never errors for well-formed
// input; the only error is the empty command name, which indicates a
// bug in the calling interceptor.
func (e *Engine) Decide(ctx context.Context, inv models.Invocation) (models.Decision, error) {
	if inv.Command == "" {
		return models.Decision{}, ErrEmptyCommand
	}

	log := logging.From(ctx)

	id, matched := e.matchers.Classify(inv.Command, inv.Args)
	if !matched {
		return models.Decision{Verdict: models.VerdictAllow}, nil
	}

	rule, ok := e.registry.Get(id)
	if !ok {
		// A matcher produced an id with no registered rule. That is an
		// engine defect, and this is a safety net, not a security
		// boundary: log loudly and let the command through.
		log.Error("engine", "matcher produced unregistered rule id, failing open",
			"rule_id", id, "command", inv.Command)
		return models.Decision{Verdict: models.VerdictAllow}, nil
	}

	if rule.Action == models.ActionInfo {
		fmt.Fprint(e.out, display.Render(rule, inv.Command, inv.Args))
		return models.Decision{
			Verdict:       models.VerdictAllow,
			MatchedRuleID: id,
		}, nil
	}

	// Block rule: exact-token scan for the bypass flag.
	if idx := indexOfToken(inv.Args, rule.BypassFlag); idx >= 0 {
		decision := models.Decision{
			Verdict:       models.VerdictAllow,
			MatchedRuleID: id,
			BypassUsed:    true,
			BypassFlag:    rule.BypassFlag,
			StrippedArgs:  StripBypass(inv.Args, rule.BypassFlag),
		}
		e.record(ctx, models.AuditEntry{
			FlagOrRuleID: rule.BypassFlag,
			Command:      inv.Command,
			Args:         inv.Args,
			Verdict:      models.VerdictAllow,
		})
		log.Warn("engine", "bypass flag used",
			"rule_id", id, "command", inv.Command, "flag", rule.BypassFlag)
		return decision, nil
	}

	fmt.Fprint(e.errOut, display.Render(rule, inv.Command, inv.Args))
	e.record(ctx, models.AuditEntry{
		FlagOrRuleID: id,
		Command:      inv.Command,
		Args:         inv.Args,
		Verdict:      models.VerdictDeny,
	})
	return models.Decision{
		Verdict:       models.VerdictDeny,
		MatchedRuleID: id,
		BypassFlag:    rule.BypassFlag,
	}, nil
}

// record stamps and appends an audit entry, best effort. Sink failure
// must never block the underlying command.
func (e *Engine) record(ctx context.Context, entry models.AuditEntry) {
	entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if entry.Cwd == "" {
		if cwd, err := os.Getwd(); err == nil {
			entry.Cwd = cwd
		}
	}
	if err := e.sink.Record(entry); err != nil {
		logging.From(ctx).Error("engine", "audit record failed", "error", err.Error())
	}
}

// StripBypass returns args with every exact occurrence of flag
// removed, preserving order of the rest.
func StripBypass(args []string, flag string) []string {
	stripped := make([]string, 0, len(args))
	for _, a := range args {
		if a == flag {
			continue
		}
		stripped = append(stripped, a)
	}
	return stripped
}

func indexOfToken(args []string, tok string) int {
	if tok == "" {
		return -1
	}
	for i, a := range args {
		if a == tok {
			return i
		}
	}
	return -1
}
