package form

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayouts are tried in order when parsing a datetime field. The
// first layout is also the canonical output format.
var DateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const requiredMessage = "This field is required."

// Binding holds one request's submitted data bound against a schema: the
// raw submitted strings, the validated canonical values ready to hand to
// the flag set, and per-field error messages.
type Binding struct {
	schema *Schema

	Raw    map[string]string
	Values map[string]string
	Errors map[string][]string
}

// Bind validates submitted form data field by field. Validation failures
// never surface as errors; they accumulate on the returned binding so the
// form can be re-rendered with messages attached to the offending fields.
//
// Fields submitted empty and not required are left out of Values, so the
// flag's own default applies on invocation.
func (s *Schema) Bind(data url.Values) *Binding {
	b := &Binding{
		schema: s,
		Raw:    make(map[string]string, len(s.Fields)),
		Values: make(map[string]string, len(s.Fields)),
		Errors: make(map[string][]string),
	}

	for _, field := range s.Fields {
		raw := data.Get(field.Name)
		b.Raw[field.Name] = raw
		b.bindField(field, raw)
	}

	return b
}

// Valid reports whether the binding has no field errors.
func (b *Binding) Valid() bool {
	return len(b.Errors) == 0
}

// Value returns the canonical bound value for a field, if one was set.
func (b *Binding) Value(name string) (string, bool) {
	v, ok := b.Values[name]
	return v, ok
}

// FieldErrors returns the error messages recorded for a field.
func (b *Binding) FieldErrors(name string) []string {
	return b.Errors[name]
}

func (b *Binding) addError(name, message string) {
	b.Errors[name] = append(b.Errors[name], message)
}

func (b *Binding) bindField(field Field, raw string) {
	// Checkboxes are never "missing": an absent checkbox is false.
	if field.Type == FieldCheckbox {
		b.Values[field.Name] = strconv.FormatBool(checkboxOn(raw))
		return
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if field.Required {
			b.addError(field.Name, requiredMessage)
		}
		return
	}

	switch field.Type {
	case FieldNumber:
		b.bindNumber(field, trimmed)
	case FieldDuration:
		d, err := time.ParseDuration(trimmed)
		if err != nil {
			b.addError(field.Name, "Not a valid duration.")
			return
		}
		b.Values[field.Name] = d.String()
	case FieldDateTime:
		b.bindDateTime(field, trimmed)
	case FieldList:
		b.Values[field.Name] = trimmed
	default:
		// Text and file-path fields pass through unmodified.
		b.Values[field.Name] = raw
	}
}

func (b *Binding) bindNumber(field Field, raw string) {
	switch field.FlagType {
	case "float32", "float64":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			b.addError(field.Name, "Not a valid number.")
			return
		}
	case "uint", "uint8", "uint16", "uint32", "uint64":
		if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
			b.addError(field.Name, "Not a valid integer.")
			return
		}
	default:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			b.addError(field.Name, "Not a valid integer.")
			return
		}
	}
	b.Values[field.Name] = raw
}

func (b *Binding) bindDateTime(field Field, raw string) {
	for _, layout := range DateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			b.Values[field.Name] = t.Format(DateTimeLayouts[0])
			return
		}
	}
	b.addError(field.Name, "Not a valid datetime value.")
}

func checkboxOn(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
