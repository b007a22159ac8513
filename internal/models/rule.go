// Package models defines the core data types shared across cmdguard.
package models

import "strings"

// Action for a rule
type Action string

const (
	// ActionBlock denies the command unless its bypass flag is present.
	ActionBlock Action = "block"
	// ActionInfo prints a tip but never blocks.
	ActionInfo Action = "info"
)

// Level display weight
type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
	LevelNotice   Level = "notice"
)

// Default display glyphs, used when a rule does not set its own.
const (
	DefaultBlockEmoji = "🚫"
	DefaultInfoEmoji  = "💡"
)

// Alternative is one suggested safer command, with an optional comment.
type Alternative struct {
	Command string `json:"command" yaml:"command"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Rule is one registered command-safety policy record.
type Rule struct {
	ID           string        `json:"id"`
	Command      string        `json:"command"`
	MatchPattern string        `json:"match_pattern,omitempty"` // documentation only, matching lives in matchers
	Action       Action        `json:"action"`
	Level        Level         `json:"level,omitempty"`
	Message      string        `json:"message"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	BypassFlag   string        `json:"bypass_flag,omitempty"`
	Verify       []string      `json:"verify,omitempty"`
	AIWarning    string        `json:"ai_warning,omitempty"`
	DocsURL      string        `json:"docs_url,omitempty"`
	Emoji        string        `json:"emoji,omitempty"`
}

// DisplayEmoji returns the rule's glyph, falling back to the action default.
func (r Rule) DisplayEmoji() string {
	if r.Emoji != "" {
		return r.Emoji
	}
	if r.Action == ActionInfo {
		return DefaultInfoEmoji
	}
	return DefaultBlockEmoji
}

// NormalizeSuffix derives the stable rule id from a human-authored
// suffix, e.g. "GIT_RESET" -> "git_reset".
func NormalizeSuffix(suffix string) string {
	return strings.ToLower(strings.TrimSpace(suffix))
}
