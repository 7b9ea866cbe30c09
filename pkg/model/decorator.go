package model

import "strings"

// Decorator enriches a field set after loading and before the engine binds it.
type Decorator interface {
	Decorate(*FieldSet) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FieldSet) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(set *FieldSet) error {
	return fn(set)
}

// LabelDecorator fills empty labels from field names. A nil labeler falls
// back to DefaultLabeler.
func LabelDecorator(labeler func(string) string) Decorator {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return DecoratorFunc(func(set *FieldSet) error {
		if set == nil {
			return nil
		}
		for idx := range set.Fields {
			if strings.TrimSpace(set.Fields[idx].Label) != "" {
				continue
			}
			set.Fields[idx].Label = labeler(set.Fields[idx].Name)
		}
		return nil
	})
}
