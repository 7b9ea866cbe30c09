package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm        ChromeClass = "formengine-form"
	ClassHeader      ChromeClass = "formengine-header"
	ClassSection     ChromeClass = "formengine-section"
	ClassOptional    ChromeClass = "formengine-optional"
	ClassField       ChromeClass = "formengine-field"
	ClassFieldErrors ChromeClass = "formengine-field-errors"
	ClassToggle      ChromeClass = "formengine-toggle"
	ClassActions     ChromeClass = "formengine-actions"
	ClassErrors      ChromeClass = "formengine-errors"
)

func defaultChromeClasses() map[ChromeClass]string {
	return map[ChromeClass]string{
		ClassForm:        string(ClassForm),
		ClassHeader:      string(ClassHeader),
		ClassSection:     string(ClassSection),
		ClassOptional:    string(ClassOptional),
		ClassField:       string(ClassField),
		ClassFieldErrors: string(ClassFieldErrors),
		ClassToggle:      string(ClassToggle),
		ClassActions:     string(ClassActions),
		ClassErrors:      string(ClassErrors),
	}
}
