package form

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// View is the render model for one form page. It is built fresh per
// request from the schema plus (optionally) the request's binding.
type View struct {
	Title   string
	Intro   string
	Action  string
	CSSPath string
	Fields  []FieldView
}

// FieldView is one field plus its per-request value and errors.
type FieldView struct {
	Field
	InputType string
	Value     string
	Checked   bool
	Step      string
	Errors    []string
}

// Multipart reports whether the form needs multipart encoding.
func (v View) Multipart() bool {
	for _, f := range v.Fields {
		if f.Type == FieldFile {
			return true
		}
	}
	return false
}

// View builds the render model. With a nil binding the form shows each
// field's default; with a binding it shows the submitted values and any
// field errors.
func (s *Schema) View(b *Binding, title, intro, action, cssPath string) View {
	view := View{
		Title:   title,
		Intro:   intro,
		Action:  action,
		CSSPath: cssPath,
		Fields:  make([]FieldView, 0, len(s.Fields)),
	}

	for _, field := range s.Fields {
		fv := FieldView{
			Field:     field,
			InputType: inputTypeFor(field),
			Value:     field.DefaultDisplay(),
			Checked:   field.DefaultChecked(),
			Step:      stepFor(field),
		}
		if b != nil {
			if raw, ok := b.Raw[field.Name]; ok {
				fv.Value = raw
				fv.Checked = checkboxOn(raw)
			}
			fv.Errors = b.FieldErrors(field.Name)
		}
		if field.Type == FieldFile {
			fv.Value = ""
		}
		view.Fields = append(view.Fields, fv)
	}

	return view
}

// Component wraps the view as a templ component so forms compose into
// templ page layouts.
func (v View) Component() templ.Component {
	return templ.FromGoHTML(formTemplate, v)
}

// Render writes the form page HTML.
func (v View) Render(ctx context.Context, w io.Writer) error {
	return v.Component().Render(ctx, w)
}

func inputTypeFor(field Field) string {
	switch field.Type {
	case FieldNumber:
		return "number"
	case FieldCheckbox:
		return "checkbox"
	case FieldFile:
		return "file"
	default:
		return "text"
	}
}

func stepFor(field Field) string {
	switch field.FlagType {
	case "float32", "float64":
		return "any"
	default:
		return ""
	}
}

var formTemplate = template.Must(template.New("cmdform").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .CSSPath}}<link rel="stylesheet" href="{{.CSSPath}}">{{end}}
</head>
<body class="cmdform">
<div class="cmdform-card">
<h1>{{.Title}}</h1>
{{if .Intro}}<p class="cmdform-intro">{{.Intro}}</p>{{end}}
<form method="post" action="{{.Action}}"{{if .Multipart}} enctype="multipart/form-data"{{end}}>
{{range .Fields}}<div class="cmdform-field">
<label for="{{.Name}}">{{.Label}}</label>
{{if eq .InputType "checkbox"}}<input type="checkbox" id="{{.Name}}" name="{{.Name}}"{{if .Checked}} checked{{end}}>
{{else if eq .InputType "file"}}<input type="file" id="{{.Name}}" name="{{.Name}}">
{{else}}<input type="{{.InputType}}" id="{{.Name}}" name="{{.Name}}" value="{{.Value}}"{{if .Step}} step="{{.Step}}"{{end}}>
{{end}}{{if .Help}}<small class="cmdform-help">{{.Help}}</small>{{end}}
{{range .Errors}}<span class="cmdform-error">{{.}}</span>
{{end}}</div>
{{end}}<button type="submit">Run</button>
</form>
</div>
</body>
</html>
`))
