package drift

import (
	"strings"

	"github.com/wI2L/jsondiff"
)

// Translate turns raw JSON patches on a rule into readable messages,
// deduplicated, most policy-relevant fields first in wording.
func Translate(patches jsondiff.Patch) []string {
	if len(patches) == 0 {
		return nil
	}

	var translations []string
	seen := make(map[string]bool)

	for _, op := range patches {
		translation := translateOperation(op)
		if translation != "" && !seen[translation] {
			seen[translation] = true
			translations = append(translations, translation)
		}
	}
	return translations
}

func translateOperation(op jsondiff.Operation) string {
	path := strings.ToLower(op.Path)

	switch {
	case strings.HasPrefix(path, "/action"):
		return "⚠️  Action changed (block/info semantics differ)."
	case strings.HasPrefix(path, "/bypass_flag"):
		return "⚠️  Bypass flag changed; existing override muscle memory no longer applies."
	case strings.HasPrefix(path, "/command"):
		return "⚠️  Target command changed."
	case strings.HasPrefix(path, "/level"):
		return "Severity level changed."
	case strings.HasPrefix(path, "/alternatives"):
		switch op.Type {
		case jsondiff.OperationAdd:
			return "Alternative added."
		case jsondiff.OperationRemove:
			return "Alternative removed."
		default:
			return "Alternative modified."
		}
	case strings.HasPrefix(path, "/verify"):
		return "Verify checklist changed."
	case strings.HasPrefix(path, "/message"), strings.HasPrefix(path, "/docs_url"),
		strings.HasPrefix(path, "/match_pattern"), strings.HasPrefix(path, "/ai_warning"),
		strings.HasPrefix(path, "/emoji"):
		return "Documentation update."
	default:
		return "Rule modified."
	}
}

// Critical reports whether a translated message flags a semantic
// policy change rather than wording.
func Critical(translation string) bool {
	return strings.Contains(translation, "⚠️")
}
