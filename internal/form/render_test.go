package form

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/conneroisu/cmdform/internal/introspect"
)

// parseInputs renders the view and returns the input elements keyed by
// their name attribute.
func parseInputs(t *testing.T, v View) map[string]map[string]string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, v.Render(context.Background(), &buf))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	inputs := make(map[string]map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			attrs := make(map[string]string)
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			if name, ok := attrs["name"]; ok {
				inputs[name] = attrs
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return inputs
}

func renderToString(t *testing.T, v View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(context.Background(), &buf))
	return buf.String()
}

func TestViewRendersDefaults(t *testing.T) {
	schema, err := BuildSchema("repeat", []introspect.ParamSpec{
		{Name: "count", Type: "int", Default: "2", Help: "Number of times to repeat"},
		{Name: "text", Type: "string", Default: "", Help: "Text to repeat", Required: true},
		{Name: "shout", Type: "bool", Default: "true"},
	})
	require.NoError(t, err)

	view := schema.View(nil, "repeat", "Repeat text.", "/cmd/repeat", "/assets/cmdform.css")
	inputs := parseInputs(t, view)

	require.Contains(t, inputs, "count")
	assert.Equal(t, "number", inputs["count"]["type"])
	assert.Equal(t, "2", inputs["count"]["value"])

	require.Contains(t, inputs, "text")
	assert.Equal(t, "text", inputs["text"]["type"])
	assert.Equal(t, "", inputs["text"]["value"])

	require.Contains(t, inputs, "shout")
	assert.Equal(t, "checkbox", inputs["shout"]["type"])
	_, checked := inputs["shout"]["checked"]
	assert.True(t, checked)

	page := renderToString(t, view)
	assert.Contains(t, page, "Repeat text.")
	assert.Contains(t, page, "Number of times to repeat")
	assert.Contains(t, page, `action="/cmd/repeat"`)
	assert.Contains(t, page, `href="/assets/cmdform.css"`)
}

func TestViewRendersFieldErrorsAndSubmittedValues(t *testing.T) {
	schema, err := BuildSchema("repeat", []introspect.ParamSpec{
		{Name: "count", Type: "int", Default: "2"},
		{Name: "text", Type: "string", Default: "", Required: true},
	})
	require.NoError(t, err)

	b := schema.Bind(url.Values{"count": {"oops"}})
	require.False(t, b.Valid())

	view := schema.View(b, "repeat", "", "/cmd/repeat", "")
	page := renderToString(t, view)
	assert.Contains(t, page, "Not a valid integer.")
	assert.Contains(t, page, requiredMessage)

	inputs := parseInputs(t, view)
	assert.Equal(t, "oops", inputs["count"]["value"], "submitted value survives re-render")
}

func TestViewEscapesValues(t *testing.T) {
	schema, err := BuildSchema("echo", []introspect.ParamSpec{
		{Name: "text", Type: "string", Default: ""},
	})
	require.NoError(t, err)

	b := schema.Bind(url.Values{"text": {`<script>alert(1)</script>`}})
	page := renderToString(t, schema.View(b, "echo", "", "/cmd/echo", ""))
	assert.NotContains(t, page, "<script>alert(1)</script>")
}

func TestViewMultipartForFileFields(t *testing.T) {
	schema, err := BuildSchema("ingest", []introspect.ParamSpec{
		{Name: "input", Type: "string", Annotations: map[string][]string{
			introspect.FileFlagAnnotation: {"true"},
		}},
	})
	require.NoError(t, err)

	view := schema.View(nil, "ingest", "", "/cmd/ingest", "")
	assert.True(t, view.Multipart())

	page := renderToString(t, view)
	assert.Contains(t, page, "multipart/form-data")

	inputs := parseInputs(t, view)
	assert.Equal(t, "file", inputs["input"]["type"])
}

func TestViewComponentIsTemplComponent(t *testing.T) {
	schema, err := BuildSchema("noop", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	component := schema.View(nil, "noop", "", "/cmd/noop", "").Component()
	require.NoError(t, component.Render(context.Background(), &buf))
	assert.True(t, strings.Contains(buf.String(), "<form"))
}
