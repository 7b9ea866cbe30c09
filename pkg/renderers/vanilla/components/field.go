package components

// Field is the template-facing view of one bound control. Description holds
// sanitised HTML; every other string is escaped by the templates.
type Field struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	FieldName   string   `json:"field_name"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Control     string   `json:"control"`
	InputType   string   `json:"input_type,omitempty"`
	Value       string   `json:"value"`
	Checked     bool     `json:"checked,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	Min         string   `json:"min,omitempty"`
	Max         string   `json:"max,omitempty"`
	Step        string   `json:"step,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	JSONValid   bool     `json:"json_valid,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
	Active      bool     `json:"active,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// Choice is a select, multiselect or radio option with its selection state.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}
