package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cmdguard/cmdguard/internal/audit"
	"github.com/cmdguard/cmdguard/internal/engine"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/observability"
	"github.com/cmdguard/cmdguard/internal/observability/logging"
	otelobs "github.com/cmdguard/cmdguard/internal/observability/otel"
)

var checkCmd = &cobra.Command{
	Use:   "check -- <command> [args...]",
	Short: "Decide whether an intercepted command may run",
	Long: `Check classifies one intercepted invocation against the rule set.

Exit codes:
  0  allow — run the command (strip the bypass flag first if one was used)
  3  deny  — abort; the block message was printed to stderr
  1  internal error — fail open, run the command

Example:
  cmdguard check -- git reset --hard
  cmdguard check --json -- git reset --hard --force-danger`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

var (
	checkJSON    bool
	checkNoAudit bool
)

func init() {
	addRulesetFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the decision as JSON on stdout")
	checkCmd.Flags().BoolVar(&checkNoAudit, "no-audit", false, "Skip audit logging (tests and dry runs)")
}

// GetCheckCmd export
func GetCheckCmd() *cobra.Command {
	return checkCmd
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	log := logging.From(ctx)
	start := time.Now()

	inv := models.Invocation{Command: args[0]}
	if len(args) > 1 {
		inv.Args = args[1:]
	}

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "cmdguard.check",
			trace.WithAttributes(
				attribute.String("cmdguard.op_id", observability.OpID(ctx)),
				attribute.String("cmdguard.intercepted_command", inv.Command),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
			} else {
				span.SetStatus(codes.Ok, "success")
			}
			span.End()
		}()
	}

	log.Event(ctx, "check.start", map[string]any{"command": inv.Command})

	reg, set, err := buildRuleset()
	if err != nil {
		return err
	}

	sink := newAuditSink(ctx)
	defer sink.Close()

	var opts []engine.Option
	opts = append(opts, engine.WithAuditSink(sink))
	if checkJSON {
		// Keep stdout clean for the decision document.
		opts = append(opts, engine.WithOutput(os.Stderr, os.Stderr))
	}
	eng := engine.New(reg, set, opts...)

	decision, err := eng.Decide(ctx, inv)
	if err != nil {
		return fmt.Errorf("decide failed: %w", err)
	}

	log.Event(ctx, "check.complete", map[string]any{
		"duration_ms":     time.Since(start).Milliseconds(),
		"verdict":         string(decision.Verdict),
		"matched_rule_id": decision.MatchedRuleID,
		"bypass_used":     decision.BypassUsed,
	})

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(decision); err != nil {
			return fmt.Errorf("failed to encode decision: %w", err)
		}
	}

	if !decision.Allowed() {
		_ = sink.Close()
		teardownObservability(cmd, args)
		os.Exit(ExitDeny)
	}
	return nil
}

// newAuditSink opens the configured audit log, degrading to a discard
// sink when it cannot: audit failures never block the command.
func newAuditSink(ctx context.Context) audit.Sink {
	if checkNoAudit {
		return audit.Discard{}
	}
	sink, err := audit.NewFileSink(audit.DefaultLogPath())
	if err != nil {
		logging.From(ctx).Error("cli", "failed to open audit log", "error", err.Error())
		return audit.Discard{}
	}
	return sink
}
