package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLConfigLoader reads raw config from a YAML document. Data wins over
// Path when both are set. Section selects a nested mapping, such as
// "apicall" in a shared application file.
type YAMLConfigLoader struct {
	Path    string
	Data    []byte
	Section string
	// Optional treats a missing file as empty config.
	Optional bool
}

func NewYAMLConfigLoader(path string, section string) *YAMLConfigLoader {
	return &YAMLConfigLoader{Path: path, Section: section}
}

func (l *YAMLConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if l == nil {
		return map[string]any{}, nil
	}
	data := l.Data
	if len(data) == 0 && strings.TrimSpace(l.Path) != "" {
		content, err := os.ReadFile(l.Path)
		if err != nil {
			if l.Optional && errors.Is(err, fs.ErrNotExist) {
				return map[string]any{}, nil
			}
			return nil, fmt.Errorf("core: read config %s: %w", l.Path, err)
		}
		data = content
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("core: decode yaml config: %w", err)
	}
	section := strings.TrimSpace(l.Section)
	if section == "" {
		return raw, nil
	}
	nested, ok := raw[section]
	if !ok || nested == nil {
		return map[string]any{}, nil
	}
	values, ok := nested.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("core: config section %q is not a mapping", section)
	}
	return values, nil
}
