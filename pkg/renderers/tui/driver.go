package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// Prompt is one question put to the user. Field is the bound field being
// answered; the optional field picker leaves it zero. Default is the current
// answer as text and Selected the preselected indices into Options.
type Prompt struct {
	Field    engine.FieldView
	Message  string
	Help     string
	Default  string
	Options  []string
	Selected []int
}

// fieldPrompt seeds a prompt with the label and help text of view.
func fieldPrompt(view engine.FieldView) Prompt {
	return Prompt{
		Field:   view,
		Message: displayLabel(view),
		Help:    displayHelp(view),
	}
}

// PromptDriver asks the questions of a session. Implementations other than
// the terminal one are used by tests and embedding applications.
type PromptDriver interface {
	// Ask reads a single line of text.
	Ask(ctx context.Context, p Prompt) (string, error)
	// Confirm reads a yes/no answer; Default "true" preselects yes.
	Confirm(ctx context.Context, p Prompt) (bool, error)
	// Choose returns the index of one of p.Options.
	Choose(ctx context.Context, p Prompt) (int, error)
	// ChooseMany returns the indices of the picked p.Options.
	ChooseMany(ctx context.Context, p Prompt) ([]int, error)
	// Compose reads multi-line text. Overlay text areas open an editor.
	Compose(ctx context.Context, p Prompt) (string, error)
	// Notify prints a line between prompts.
	Notify(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

func newSurveyDriver() PromptDriver {
	return &surveyDriver{out: os.Stdout}
}

func (d *surveyDriver) Ask(ctx context.Context, p Prompt) (string, error) {
	var answer string
	err := ask(ctx, &survey.Input{Message: p.Message, Help: p.Help, Default: p.Default}, &answer)
	return answer, err
}

func (d *surveyDriver) Confirm(ctx context.Context, p Prompt) (bool, error) {
	var answer bool
	err := ask(ctx, &survey.Confirm{Message: p.Message, Help: p.Help, Default: p.Default == "true"}, &answer)
	return answer, err
}

func (d *surveyDriver) Choose(ctx context.Context, p Prompt) (int, error) {
	prompt := &survey.Select{Message: p.Message, Help: p.Help, Options: p.Options}
	if picked := optionsAt(p.Options, p.Selected); len(picked) > 0 {
		prompt.Default = picked[0]
	}
	var answer string
	if err := ask(ctx, prompt, &answer); err != nil {
		return -1, err
	}
	if at := positionsOf(p.Options, []string{answer}); len(at) == 1 {
		return at[0], nil
	}
	return -1, nil
}

func (d *surveyDriver) ChooseMany(ctx context.Context, p Prompt) ([]int, error) {
	prompt := &survey.MultiSelect{Message: p.Message, Help: p.Help, Options: p.Options}
	if picked := optionsAt(p.Options, p.Selected); len(picked) > 0 {
		prompt.Default = picked
	}
	var answers []string
	if err := ask(ctx, prompt, &answers); err != nil {
		return nil, err
	}
	return positionsOf(p.Options, answers), nil
}

func (d *surveyDriver) Compose(ctx context.Context, p Prompt) (string, error) {
	var prompt survey.Prompt = &survey.Multiline{Message: p.Message, Help: p.Help, Default: p.Default}
	if p.Field.Control == widgets.ControlTextareaOverlay {
		prompt = &survey.Editor{
			Message:       p.Message,
			Help:          p.Help,
			Default:       p.Default,
			FileName:      p.Field.Name + "*.txt",
			HideDefault:   true,
			AppendDefault: true,
		}
	}
	var answer string
	err := ask(ctx, prompt, &answer)
	return answer, err
}

func (d *surveyDriver) Notify(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

// ask runs one survey prompt, mapping Ctrl+C to ErrAborted.
func ask(ctx context.Context, prompt survey.Prompt, answer any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, answer)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func optionsAt(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

// positionsOf maps answers back to option indices in option order.
func positionsOf(options, answers []string) []int {
	var out []int
	for idx, option := range options {
		for _, answer := range answers {
			if option == answer {
				out = append(out, idx)
				break
			}
		}
	}
	return out
}
