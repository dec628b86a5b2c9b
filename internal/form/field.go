// Package form builds web form schemas from command parameter specs, binds
// submitted request data against them, and renders them as HTML.
//
// The mapping is structural and deterministic: one field per parameter, in
// parameter order, field type derived from the flag's value type. Binding
// failures are recorded per field on the Binding, never returned as errors,
// so a failed submission re-renders the form instead of failing the request.
package form

import "strings"

// FieldType classifies the input element generated for a parameter.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumber
	FieldCheckbox
	FieldDuration
	FieldDateTime
	FieldFile
	FieldList
)

// String returns the string representation of the field type
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldNumber:
		return "number"
	case FieldCheckbox:
		return "checkbox"
	case FieldDuration:
		return "duration"
	case FieldDateTime:
		return "datetime"
	case FieldFile:
		return "file"
	case FieldList:
		return "list"
	default:
		return "unknown"
	}
}

// Field is one form input derived from one ParamSpec.
type Field struct {
	Name     string
	Type     FieldType
	FlagType string // pflag value type the field binds back to
	Label    string
	Help     string
	Required bool
	Default  string
}

// DefaultDisplay returns the default value in the form the field shows it.
// Slice defaults arrive in pflag's "[a,b]" encoding and are displayed as
// comma separated text.
func (f Field) DefaultDisplay() string {
	if f.Type == FieldList {
		return strings.TrimSuffix(strings.TrimPrefix(f.Default, "["), "]")
	}
	return f.Default
}

// DefaultChecked reports whether a checkbox field defaults to on.
func (f Field) DefaultChecked() bool {
	return f.Type == FieldCheckbox && f.Default == "true"
}
