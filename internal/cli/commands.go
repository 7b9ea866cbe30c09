package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/headless"
	"github.com/goliatone/go-formengine/pkg/renderers/tui"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
	"github.com/goliatone/go-formengine/pkg/toolset"
)

// ErrInvalidValues is returned by validate when any field fails.
var ErrInvalidValues = errors.New("value object failed validation")

func (a *app) renderCommand() *cobra.Command {
	var (
		rendererName string
		output       string
		format       string
		title        string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form with the vanilla, headless or tui renderer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := a.request()
			if err != nil {
				return err
			}
			registry, err := a.renderers(tui.OutputFormat(format))
			if err != nil {
				return err
			}
			gen, err := a.orchestrator(orchestrator.WithRegistry(registry))
			if err != nil {
				return err
			}

			req.Renderer = rendererName
			req.RenderOptions = render.RenderOptions{Title: title}
			data, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVar(&rendererName, "renderer", "vanilla", "renderer to use (vanilla, headless, tui)")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "tui output format (json, form, pretty)")
	cmd.Flags().StringVar(&title, "title", "", "form title")
	return cmd
}

func (a *app) renderers(format tui.OutputFormat) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New(vanilla.WithDefaultStyles())
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	interactive, err := tui.New(tui.WithPromptDriver(a.driver), tui.WithOutputFormat(format))
	if err != nil {
		return nil, fmt.Errorf("tui renderer: %w", err)
	}
	for _, renderer := range []render.Renderer{html, headless.New(headless.WithIndent("  ")), interactive} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check required and active optional values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, _, err := a.bind(cmd.Context())
			if err != nil {
				return err
			}
			errs := engine.Validate(form)
			if errs.Empty() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "values are valid")
				return err
			}

			paths := make([]string, 0, len(errs))
			for path := range errs {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			var lines []string
			for _, path := range paths {
				for _, msg := range errs[path] {
					lines = append(lines, fmt.Sprintf("%s: %s", path, msg))
				}
			}
			if err := writeLines(cmd.OutOrStdout(), lines); err != nil {
				return err
			}
			return fmt.Errorf("%w: %d field(s)", ErrInvalidValues, len(paths))
		},
	}
}

func (a *app) toggleCommand() *cobra.Command {
	var (
		fields      []string
		assignments []string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle optional fields and print the updated value object",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, _, err := a.bind(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range fields {
				active, ok := form.Optional().Toggle(name)
				if !ok {
					return fmt.Errorf("unknown optional field %q", name)
				}
				a.logger.Debug("toggled optional field", zap.String("field", name), zap.Bool("active", active))
			}
			for _, assignment := range assignments {
				name, value, err := parseAssignment(assignment)
				if err != nil {
					return err
				}
				if !form.Set(name, value) {
					a.logger.Debug("assignment ignored", zap.String("field", name))
				}
			}

			data, err := marshalValues(form.Values())
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringArrayVar(&fields, "field", nil, "optional field to toggle (repeatable)")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "name=value assignment applied after toggling (repeatable)")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout if empty)")
	return cmd
}

// parseAssignment splits name=value. Values that parse as JSON are decoded;
// anything else is kept as a string.
func parseAssignment(raw string) (string, any, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("assignment %q must look like name=value", raw)
	}
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		return name, decoded, nil
	}
	return name, value, nil
}

type toolsReport struct {
	Attached  []toolset.Tool `json:"attached"`
	Available []toolset.Tool `json:"available"`
	Dangling  []toolset.Ref  `json:"dangling,omitempty"`
	Refs      []toolset.Ref  `json:"refs"`
	Changes   toolsChanges   `json:"changes"`
}

type toolsChanges struct {
	Attach []toolset.Ref `json:"attach,omitempty"`
	Detach []toolset.Ref `json:"detach,omitempty"`
}

func (a *app) toolsCommand() *cobra.Command {
	var (
		catalogPath string
		attached    []string
		attach      []string
		detach      []string
	)
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Reconcile an agent's attached tools against a tool catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if catalogPath == "" {
				return errors.New("--catalog is required")
			}
			data, err := os.ReadFile(catalogPath)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			catalog, err := toolset.LoadCatalog(data, catalogPath)
			if err != nil {
				return err
			}

			before, err := parseRefs(attached)
			if err != nil {
				return err
			}
			after := before
			for _, raw := range attach {
				ref, err := toolset.ParseRef(raw)
				if err != nil {
					return err
				}
				after, _ = toolset.Attach(after, ref)
			}
			for _, raw := range detach {
				ref, err := toolset.ParseRef(raw)
				if err != nil {
					return err
				}
				after, _ = toolset.Detach(after, ref)
			}

			result := toolset.Reconcile(after, catalog)
			changes := toolset.Diff(before, after)
			a.logger.Debug("reconciled tools",
				zap.Int("attached", len(result.Attached)),
				zap.Int("dangling", len(result.Dangling)),
				zap.Bool("changed", !changes.Empty()),
			)

			out, err := json.MarshalIndent(toolsReport{
				Attached:  result.Attached,
				Available: result.Available,
				Dangling:  result.Dangling,
				Refs:      after,
				Changes:   toolsChanges{Attach: changes.Attach, Detach: changes.Detach},
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return writeOutput(cmd, "", out)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "tool catalog document (JSON or YAML)")
	cmd.Flags().StringSliceVar(&attached, "attached", nil, "currently attached tools as source:id")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "tool to attach as source:id (repeatable)")
	cmd.Flags().StringArrayVar(&detach, "detach", nil, "tool to detach as source:id (repeatable)")
	return cmd
}

func parseRefs(raw []string) ([]toolset.Ref, error) {
	refs := make([]toolset.Ref, 0, len(raw))
	for _, item := range raw {
		ref, err := toolset.ParseRef(item)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
