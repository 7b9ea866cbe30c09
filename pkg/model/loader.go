package model

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFieldSet parses a JSON or YAML field set document. JSON is attempted
// first; YAML is the fallback. A bare list of descriptors is accepted as a
// field set without a name.
func LoadFieldSet(data []byte, source string) (FieldSet, error) {
	if strings.TrimSpace(string(data)) == "" {
		return FieldSet{}, fmt.Errorf("model: field set %s is empty", source)
	}

	var set FieldSet
	if err := json.Unmarshal(data, &set); err == nil {
		return normaliseFieldSet(set), nil
	}
	var list []FieldDescriptor
	if err := json.Unmarshal(data, &list); err == nil {
		return normaliseFieldSet(FieldSet{Fields: list}), nil
	}

	if err := yaml.Unmarshal(data, &set); err == nil && len(set.Fields) > 0 {
		return normaliseFieldSet(set), nil
	}
	list = nil
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return normaliseFieldSet(FieldSet{Fields: list}), nil
	}

	return FieldSet{}, fmt.Errorf("model: parse %s: invalid JSON or YAML field set", source)
}

// LoadFS walks fsys and loads every .json/.yaml/.yml file as a field set,
// keyed by the set name (or the file's base name when the name is empty).
// Duplicate names are rejected.
func LoadFS(fsys fs.FS) (map[string]FieldSet, error) {
	sets := make(map[string]FieldSet)
	if fsys == nil {
		return sets, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFieldSetFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("model: read %s: %w", path, err)
		}
		set, err := LoadFieldSet(data, path)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(set.Name)
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			set.Name = name
		}
		if _, exists := sets[name]; exists {
			return fmt.Errorf("model: duplicate field set %q (file %s)", name, path)
		}
		sets[name] = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

func isFieldSetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func normaliseFieldSet(set FieldSet) FieldSet {
	set.Name = strings.TrimSpace(set.Name)
	set.OptionalListField = strings.TrimSpace(set.OptionalListField)
	for idx := range set.Fields {
		field := &set.Fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		field.Type = FieldType(strings.ToLower(strings.TrimSpace(string(field.Type))))
		field.Options = normaliseYAMLValue(field.Options)
		field.DefaultValue = normaliseYAMLValue(field.DefaultValue)
	}
	return set
}

// normaliseYAMLValue rewrites map[any]any nodes (possible with non-string YAML
// keys) into map[string]any so downstream code sees one shape.
func normaliseYAMLValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normaliseYAMLValue(item)
		}
		return out
	case map[string]any:
		for key, item := range v {
			v[key] = normaliseYAMLValue(item)
		}
		return v
	case []any:
		for idx, item := range v {
			v[idx] = normaliseYAMLValue(item)
		}
		return v
	default:
		return v
	}
}
