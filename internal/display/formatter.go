// Package display renders rules into user-facing messages. Pure
// presentation: nothing here alters a decision.
package display

import (
	"strings"

	"github.com/cmdguard/cmdguard/internal/models"
)

// Render produces the message for a matched rule: what/why, the
// alternatives, and for block rules the exact override invocation.
// Total for any well-formed rule; segments are blank-line separated.
func Render(rule models.Rule, command string, args []string) string {
	var b strings.Builder

	b.WriteString(rule.DisplayEmoji())
	b.WriteString(" ")
	b.WriteString(rule.Message)
	b.WriteString("\n")

	if len(rule.Alternatives) > 0 {
		label := "Safer alternatives:"
		if rule.Action == models.ActionInfo {
			label = "Try instead:"
		}
		b.WriteString("\n")
		b.WriteString(label)
		b.WriteString("\n")
		for _, alt := range rule.Alternatives {
			b.WriteString("  ")
			b.WriteString(alt.Command)
			if alt.Comment != "" {
				b.WriteString("   # ")
				b.WriteString(alt.Comment)
			}
			b.WriteString("\n")
		}
	}

	if len(rule.Verify) > 0 && rule.Action == models.ActionBlock {
		b.WriteString("\nVerify first:\n")
		for _, v := range rule.Verify {
			b.WriteString("  ")
			b.WriteString(v)
			b.WriteString("\n")
		}
	}

	if rule.Action == models.ActionBlock {
		b.WriteString("\nOverride: ")
		b.WriteString(overrideLine(command, args, rule.BypassFlag))
		b.WriteString("\n")
		if rule.DocsURL != "" {
			b.WriteString("Docs: ")
			b.WriteString(rule.DocsURL)
			b.WriteString("\n")
		}
	} else if rule.DocsURL != "" {
		b.WriteString("\nDocs: ")
		b.WriteString(rule.DocsURL)
		b.WriteString("\n")
	}

	if rule.AIWarning != "" {
		b.WriteString("\n")
		b.WriteString(rule.AIWarning)
		b.WriteString("\n")
	}

	return b.String()
}

// overrideLine reproduces the original command with the bypass flag
// appended, ready to copy-paste.
func overrideLine(command string, args []string, bypassFlag string) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, command)
	parts = append(parts, args...)
	parts = append(parts, bypassFlag)
	return strings.Join(parts, " ")
}
