package engine

import (
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/jsonfmt"
	"github.com/goliatone/go-formengine/pkg/model"
)

// Validation messages.
const (
	MsgRequired      = "value is required"
	MsgInvalidEmail  = "must be a valid email address"
	MsgInvalidDate   = "must be a date in YYYY-MM-DD format"
	MsgInvalidChoice = "must be one of the listed options"
	MsgInvalidJSON   = "must be valid JSON"
)

// ValidationErrors maps value paths to messages.
type ValidationErrors map[string][]string

// Empty reports whether no errors were collected.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

func (v ValidationErrors) add(path string, messages ...string) {
	if len(messages) == 0 {
		return
	}
	v[path] = append(v[path], messages...)
}

// Validate checks the values a caller is about to submit. Required fields
// and active optional fields are checked; inactive optional fields are not
// part of the value object and are never reported. Keys are full value paths.
func Validate(form *Form) ValidationErrors {
	errs := ValidationErrors{}
	if form == nil {
		return errs
	}
	snapshot := form.Snapshot()
	for _, view := range snapshot.Required {
		errs.add(view.Path, ValidateField(view)...)
	}
	for _, view := range snapshot.Optional {
		if !view.Active {
			continue
		}
		errs.add(view.Path, ValidateField(view)...)
	}
	return errs
}

// ValidateField checks a single view, typically one whose Value holds a
// candidate that has not been written to the form yet.
func ValidateField(view FieldView) []string {
	if isEmpty(view.Value) {
		if view.Required {
			return []string{MsgRequired}
		}
		return nil
	}

	switch view.Type {
	case model.FieldTypeEmail:
		if _, err := mail.ParseAddress(coerce.String(view.Value)); err != nil {
			return []string{MsgInvalidEmail}
		}
	case model.FieldTypeDate:
		if _, err := time.Parse(time.DateOnly, coerce.String(view.Value)); err != nil {
			return []string{MsgInvalidDate}
		}
	case model.FieldTypeSelect, model.FieldTypeRadio:
		if !hasChoice(view.Choices, coerce.String(view.Value)) {
			return []string{MsgInvalidChoice}
		}
	case model.FieldTypeMultiselect:
		for _, item := range coerce.StringSlice(view.Value) {
			if !hasChoice(view.Choices, item) {
				return []string{MsgInvalidChoice}
			}
		}
	case model.FieldTypeJSON:
		raw := coerce.String(view.Value)
		if view.Schema != "" {
			return jsonfmt.Validate(raw, view.Schema)
		}
		if !jsonfmt.Valid(raw) {
			return []string{MsgInvalidJSON}
		}
	}
	return nil
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}

func hasChoice(choices []model.Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
