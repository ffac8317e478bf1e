package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm        ChromeClass = "formbuilder-form"
	ClassHeader      ChromeClass = "formbuilder-header"
	ClassSection     ChromeClass = "formbuilder-section"
	ClassGroup       ChromeClass = "formbuilder-group"
	ClassFieldset    ChromeClass = "formbuilder-fieldset"
	ClassField       ChromeClass = "formbuilder-field"
	ClassControl     ChromeClass = "formbuilder-control"
	ClassCheckbox    ChromeClass = "formbuilder-checkbox"
	ClassButton      ChromeClass = "formbuilder-button"
	ClassDescription ChromeClass = "formbuilder-description"
	ClassError       ChromeClass = "formbuilder-error"
	ClassErrors      ChromeClass = "formbuilder-errors"
	ClassActions     ChromeClass = "formbuilder-actions"
	ClassGrid        ChromeClass = "formbuilder-grid"
)

// chromeClasses is exposed to templates as the "classes" global.
func chromeClasses(overrides map[string]string) map[string]any {
	classes := map[string]any{
		"form":        string(ClassForm),
		"header":      string(ClassHeader),
		"section":     string(ClassSection),
		"group":       string(ClassGroup),
		"fieldset":    string(ClassFieldset),
		"field":       string(ClassField),
		"control":     string(ClassControl),
		"checkbox":    string(ClassCheckbox),
		"button":      string(ClassButton),
		"description": string(ClassDescription),
		"error":       string(ClassError),
		"errors":      string(ClassErrors),
		"actions":     string(ClassActions),
		"grid":        string(ClassGrid),
	}
	for name, value := range overrides {
		if value = sanitizeClassList(value); value != "" {
			classes[name] = value
		}
	}
	return classes
}
