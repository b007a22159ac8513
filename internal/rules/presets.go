package rules

import (
	"embed"
	"fmt"
	"sort"

	"github.com/cmdguard/cmdguard/internal/matcher"
	"github.com/cmdguard/cmdguard/internal/models"
	"github.com/cmdguard/cmdguard/internal/registry"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// presetFiles maps preset names to embedded file paths.
var presetFiles = map[string]string{
	"containers": "presets/containers.yaml",
	"paranoid":   "presets/paranoid.yaml",
}

// GetPreset parses a built-in preset by name, or nil if not found.
func GetPreset(name string) *models.RuleFile {
	path, ok := presetFiles[name]
	if !ok {
		return nil
	}
	data, err := presetFS.ReadFile(path)
	if err != nil {
		return nil
	}
	file, err := Parse(data)
	if err != nil {
		return nil
	}
	return file
}

// ListPresetNames returns the available preset names, sorted.
func ListPresetNames() []string {
	names := make([]string, 0, len(presetFiles))
	for name := range presetFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset applies a built-in preset on top of the registry and
// matcher set.
func LoadPreset(name string, r *registry.Registry, set *matcher.Set) error {
	file := GetPreset(name)
	if file == nil {
		return fmt.Errorf("unknown preset: %s", name)
	}
	return Apply(file, r, set)
}
