package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/model"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
)

// request assembles an orchestrator request from the bound flags.
func (a *app) request() (orchestrator.Request, error) {
	path := a.v.GetString("fields")
	if path == "" {
		return orchestrator.Request{}, errors.New("--fields is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return orchestrator.Request{}, fmt.Errorf("read fields: %w", err)
	}

	values, err := loadValues(a.v.GetString("values"))
	if err != nil {
		return orchestrator.Request{}, err
	}

	req := orchestrator.Request{
		Values:            values,
		Prefix:            a.v.GetString("prefix"),
		OptionalListField: a.v.GetString("list-field"),
	}
	if component := a.v.GetString("component"); component != "" {
		req.OpenAPI = data
		req.Component = component
	} else {
		req.Source = data
		req.SourceName = path
	}
	return req, nil
}

func (a *app) orchestrator(extra ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{orchestrator.WithLogger(a.logger)}
	if preset := a.v.GetString("preset"); preset != "" {
		data, err := os.ReadFile(preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(transformer))
	}
	return orchestrator.New(append(options, extra...)...), nil
}

func (a *app) bind(ctx context.Context) (*engine.Form, model.FieldSet, error) {
	req, err := a.request()
	if err != nil {
		return nil, model.FieldSet{}, err
	}
	gen, err := a.orchestrator()
	if err != nil {
		return nil, model.FieldSet{}, err
	}
	return gen.Bind(ctx, req)
}

// loadValues reads a JSON or YAML object. An empty path yields no values.
func loadValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	if values == nil {
		return nil, fmt.Errorf("parse values %s: expected an object", path)
	}
	return values, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func marshalValues(values map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	return data, nil
}
