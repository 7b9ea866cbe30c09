// Package cli implements the formengine-cli commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/pkg/renderers/tui"
)

const (
	envPrefix         = "FORMENGINE"
	defaultConfigName = "formengine"
)

// Option customises the root command.
type Option func(*app)

// WithPromptDriver replaces the terminal prompts used by the tui renderer.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithViper injects the configuration store.
func WithViper(v *viper.Viper) Option {
	return func(a *app) {
		if v != nil {
			a.v = v
		}
	}
}

type app struct {
	v       *viper.Viper
	logger  *zap.Logger
	driver  tui.PromptDriver
	cfgFile string
}

// NewRootCommand builds a fresh command tree. Each call owns its own viper
// instance so commands can be executed repeatedly in tests.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}

	root := &cobra.Command{
		Use:   "formengine-cli",
		Short: "Render, validate and toggle agent attribute forms",
		Long: `Command-line interface for the agent attribute form engine.

Field descriptors are read from a JSON or YAML field set (or an OpenAPI
component with --component). Values are read from a JSON or YAML object and
written back in the same shape the engine maintains: required fields flat,
optional fields as single-key entries under the optional list field.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initialise,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./formengine.yaml)")
	flags.String("fields", "", "field set document (JSON or YAML)")
	flags.String("component", "", "treat --fields as an OpenAPI document and read this component schema")
	flags.String("values", "", "value object document (JSON or YAML)")
	flags.String("list-field", "", "override the optional list field")
	flags.String("prefix", "", "dotted path the value object is nested under")
	flags.String("preset", "", "JSON preset that patches descriptors before binding")
	flags.Bool("verbose", false, "enable debug logging")

	for _, name := range []string{"fields", "component", "values", "list-field", "prefix", "preset", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		a.renderCommand(),
		a.validateCommand(),
		a.toggleCommand(),
		a.toolsCommand(),
	)
	return root
}

// Execute runs the command tree with process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) initialise(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(defaultConfigName)
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if a.v.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		a.logger = logger
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(ensureNewline(data))
		return err
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", path)
	return nil
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return data
	}
	return append(data, '\n')
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
