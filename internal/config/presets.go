package config

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// DefaultPreset is used when neither a mapping file nor a preset is given.
const DefaultPreset = "partners"

// ErrUnknownPreset is returned by Preset for names that are not embedded.
var ErrUnknownPreset = errors.New("unknown preset")

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset loads one of the mapping definitions compiled into the binary.
func Preset(name string) (*MappingConfig, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}

	cfg, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	cfg.Source = "preset:" + name
	if cfg.Name == "" {
		cfg.Name = name
	}

	return cfg, nil
}

// PresetNames lists the embedded presets in alphabetical order.
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}
