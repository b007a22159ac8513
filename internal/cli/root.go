// Package cli wires the cmdguard commands. The engine itself lives in
// internal/engine; everything here is flag plumbing and presentation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdguard/cmdguard/internal/observability"
	"github.com/cmdguard/cmdguard/internal/observability/logging"
	otelobs "github.com/cmdguard/cmdguard/internal/observability/otel"
	"github.com/cmdguard/cmdguard/internal/version"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Exit codes. The shell wrapper keys off these: 0 run the command,
// 3 abort it, anything else is an engine problem (fail open).
const (
	ExitAllow = 0
	ExitError = 1
	ExitDeny  = 3
)

var (
	otelEnabled  bool
	otelEndpoint string
	otelProtocol string
	otelInsecure bool

	appLogger logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cmdguard",
	Short: "Command-safety rule engine for shell interception",
	Long: `cmdguard sits between an interactive shell and dangerous commands.
The shell wrapper hands it the intercepted command; cmdguard answers
allow or deny, explains why, and records every override.`,
	Version:           version.BuildVersion(),
	PersistentPreRunE: setupObservability,
	PersistentPostRun: teardownObservability,
}

func setupObservability(cmd *cobra.Command, args []string) error {
	ctx := observability.WithOpID(cmd.Context())

	logCfg := logging.DefaultConfig()
	if v := os.Getenv("CMDGUARD_LOG_FORMAT"); v != "" {
		logCfg.Format = v
	}
	if v := os.Getenv("CMDGUARD_LOG_LEVEL"); v != "" {
		logCfg.Level = v
	}
	if v := os.Getenv("CMDGUARD_LOG_OUTPUT"); v != "" {
		logCfg.Output = v
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		// Observability must not stop the safety net.
		logger, _ = logging.NewLogger(logging.Config{})
	}
	appLogger = logger
	ctx = logging.WithLogger(ctx, logger)

	if otelEnabled {
		otelCfg := otelobs.DefaultConfig()
		otelCfg.Enabled = true
		otelCfg.Endpoint = otelEndpoint
		otelCfg.Protocol = otelProtocol
		otelCfg.Insecure = otelInsecure
		handle, err := otelobs.Init(ctx, otelCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		ctx = otelobs.WithHandle(ctx, handle)
	}

	cmd.SetContext(ctx)
	return nil
}

func teardownObservability(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if h := otelobs.From(ctx); h != nil {
		_ = h.Shutdown(ctx)
	}
	if appLogger != nil {
		_ = appLogger.Close()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&otelEnabled, "otel", false, "Enable OpenTelemetry trace export")
	rootCmd.PersistentFlags().StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP endpoint (default per protocol)")
	rootCmd.PersistentFlags().StringVar(&otelProtocol, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	rootCmd.PersistentFlags().BoolVar(&otelInsecure, "otel-insecure", false, "Allow insecure OTLP connections")

	rootCmd.AddCommand(GetCheckCmd())
	rootCmd.AddCommand(GetRulesCmd())
	rootCmd.AddCommand(GetVerifyCmd())
}
