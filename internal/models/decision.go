package models

// Verdict outcome
type Verdict string

const (
	VerdictAllow Verdict = "allow"
	VerdictDeny  Verdict = "deny"
)

// Invocation is one intercepted command. Transient, never persisted.
type Invocation struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Decision is the engine's output for one invocation.
type Decision struct {
	Verdict       Verdict  `json:"verdict"`
	MatchedRuleID string   `json:"matched_rule_id,omitempty"`
	BypassUsed    bool     `json:"bypass_used"`
	BypassFlag    string   `json:"bypass_flag,omitempty"`
	// StrippedArgs is the argument list with the bypass flag removed,
	// ready to forward to the real command. Set only when BypassUsed.
	StrippedArgs []string `json:"stripped_args,omitempty"`
}

// Allowed reports whether the host may execute the command.
func (d Decision) Allowed() bool {
	return d.Verdict == VerdictAllow
}

// AuditEntry is one append-only record of a bypass usage or a deny.
type AuditEntry struct {
	Timestamp    string   `json:"ts"`
	FlagOrRuleID string   `json:"flag_or_rule_id"`
	Command      string   `json:"command"`
	Cwd          string   `json:"cwd"`
	Args         []string `json:"args,omitempty"`
	ArgsRedacted bool     `json:"args_redacted,omitempty"`
	Verdict      Verdict  `json:"verdict,omitempty"`
}
