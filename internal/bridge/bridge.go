// Package bridge turns a cobra command into an HTTP form handler.
//
// A Bridge introspects the command once at construction, builds the form
// schema, and then serves the WTForms-style request cycle: GET renders the
// form with flag defaults, POST binds and validates the submission, and a
// valid submission invokes the command's callback with the bound values,
// returning the command's captured output as the response body. Invalid
// submissions re-render the form with field errors and never invoke the
// command.
package bridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/cmdform/internal/errors"
	"github.com/conneroisu/cmdform/internal/form"
	"github.com/conneroisu/cmdform/internal/introspect"
	"github.com/conneroisu/cmdform/internal/logging"
)

// maxUploadBytes bounds multipart parsing for file-fed flags.
const maxUploadBytes = 32 << 20

// Response is the bridge's view of an HTTP response, exposed so tweaks can
// rewrite it before it is written.
type Response struct {
	Status      int
	ContentType string
	Header      http.Header
	Body        []byte
}

// Bridge adapts one cobra command to the http.Handler protocol.
//
// The command's flag set is command-scoped mutable state, so invocations
// are serialized by a mutex and every flag touched is restored to its
// previous value afterwards. Everything else is per-request.
type Bridge struct {
	cmd     *cobra.Command
	specs   []introspect.ParamSpec
	schema  *form.Schema
	tweaks  []Tweak
	gobbled map[string]string
	skip    *regexp.Regexp
	logger  logging.Logger
	intro   string
	cssPath string

	mu sync.Mutex
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge's logger.
func WithLogger(logger logging.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithSkipPattern omits flags whose name matches re from the form.
func WithSkipPattern(re *regexp.Regexp) Option {
	return func(b *Bridge) { b.skip = re }
}

// WithTweaks installs tweaks, which may claim flags away from the form and
// rewrite responses.
func WithTweaks(tweaks ...Tweak) Option {
	return func(b *Bridge) { b.tweaks = append(b.tweaks, tweaks...) }
}

// WithIntro overrides the intro text shown above the form. The default is
// the command's help text.
func WithIntro(intro string) Option {
	return func(b *Bridge) { b.intro = intro }
}

// WithCSS sets the stylesheet path linked from rendered forms.
func WithCSS(path string) Option {
	return func(b *Bridge) { b.cssPath = path }
}

// New introspects cmd and builds its form schema. Construction fails fast:
// a command that cannot be introspected returns a configuration error, and
// a flag type with no field mapping returns an unsupported-type error, so
// misconfigured commands are caught before any request is served.
func New(cmd *cobra.Command, opts ...Option) (*Bridge, error) {
	specs, err := introspect.Command(cmd)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		cmd:     cmd,
		specs:   specs,
		gobbled: make(map[string]string),
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.intro == "" {
		b.intro = commandIntro(cmd)
	}

	visible := make([]introspect.ParamSpec, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.Hidden:
			continue
		case b.skip != nil && b.skip.MatchString(spec.Name):
			b.logger.Info(context.Background(), "flag omitted by skip pattern",
				"command", cmd.Name(), "flag", spec.Name)
			continue
		case b.gobble(spec.Name):
			b.logger.Info(context.Background(), "flag gobbled by tweak",
				"command", cmd.Name(), "flag", spec.Name)
			continue
		}
		visible = append(visible, spec)
	}

	schema, err := form.BuildSchema(cmd.Name(), visible)
	if err != nil {
		return nil, err
	}
	b.schema = schema

	return b, nil
}

// Schema returns the form schema built for the command.
func (b *Bridge) Schema() *form.Schema {
	return b.schema
}

// Specs returns the full introspected parameter list, including flags the
// form omits.
func (b *Bridge) Specs() []introspect.ParamSpec {
	return b.specs
}

func (b *Bridge) gobble(name string) bool {
	for _, tweak := range b.tweaks {
		if tweak.Gobble(name) {
			b.gobbled[name] = tweak.Name()
			return true
		}
	}
	return false
}

// ServeHTTP implements the host framework's handler protocol.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b.showForm(w, r, nil)
	case http.MethodPost:
		b.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// showForm renders the form. With a nil binding it shows flag defaults
// (the unsubmitted state); with a binding it shows the submission and its
// field errors.
func (b *Bridge) showForm(w http.ResponseWriter, r *http.Request, binding *form.Binding) {
	view := b.schema.View(binding, b.cmd.Name(), b.intro, r.URL.Path, b.cssPath)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := view.Render(r.Context(), w); err != nil {
		b.logger.Error(r.Context(), err, "rendering form", "command", b.cmd.Name())
	}
}

func (b *Bridge) handleSubmit(w http.ResponseWriter, r *http.Request) {
	values, cleanup, err := b.parseRequest(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	binding := b.schema.Bind(values)
	if !binding.Valid() {
		b.logger.Debug(r.Context(), "submission failed validation",
			"command", b.cmd.Name(), "fields", len(binding.Errors))
		b.showForm(w, r, binding)
		return
	}

	resp, err := b.invoke(r.Context(), binding)
	if err != nil {
		// Command errors propagate unmodified to the host error path.
		b.logger.Error(r.Context(), err, "command failed", "command", b.cmd.Name())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for key, vals := range resp.Header {
		for _, v := range vals {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		b.logger.Warn(r.Context(), err, "writing response", "command", b.cmd.Name())
	}
}

// parseRequest extracts form values, spooling any uploaded files for
// file-fed flags to temp files whose paths become the bound values. The
// returned cleanup removes the spooled files.
func (b *Bridge) parseRequest(r *http.Request) (url.Values, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("parsing form: %w", err)
		}
		return r.PostForm, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("parsing multipart form: %w", err)
	}

	values := url.Values{}
	for key, vals := range r.MultipartForm.Value {
		values[key] = vals
	}

	var spooled []string
	cleanup := func() {
		for _, path := range spooled {
			os.Remove(path)
		}
	}

	for _, field := range b.schema.Fields {
		if field.Type != form.FieldFile {
			continue
		}
		headers := r.MultipartForm.File[field.Name]
		if len(headers) == 0 {
			continue
		}
		path, err := spoolUpload(headers[0])
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("spooling upload %q: %w", field.Name, err)
		}
		spooled = append(spooled, path)
		values.Set(field.Name, path)
	}

	return values, cleanup, nil
}

func spoolUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "cmdform-upload-*")
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// invoke runs the command's callback with the bound values applied to its
// flag set, capturing everything the command prints.
func (b *Bridge) invoke(ctx context.Context, binding *form.Binding) (*Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values := make(map[string]string, len(binding.Values))
	for name, val := range binding.Values {
		values[name] = val
	}
	for _, tweak := range b.tweaks {
		if err := tweak.PadValues(values); err != nil {
			return nil, errors.NewInternalError("padding values", err).
				WithContext("tweak", tweak.Name())
		}
	}

	run := logging.Watch(b.logger.WithComponent("bridge"), b.cmd.Name(), func(ctx context.Context) (string, error) {
		return b.runCommand(ctx, values)
	})
	out, err := run(ctx)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Status:      http.StatusOK,
		ContentType: "text/plain; charset=utf-8",
		Header:      http.Header{},
		Body:        []byte(out),
	}
	for _, tweak := range b.tweaks {
		resp, err = tweak.PostProcess(resp)
		if err != nil {
			return nil, errors.NewInternalError("post-processing response", err).
				WithContext("tweak", tweak.Name())
		}
	}
	return resp, nil
}

func (b *Bridge) runCommand(ctx context.Context, values map[string]string) (string, error) {
	fs := b.cmd.Flags()

	restore, err := applyValues(fs, values)
	if err != nil {
		return "", err
	}
	defer restore()

	var buf bytes.Buffer
	b.cmd.SetOut(&buf)
	b.cmd.SetErr(&buf)
	b.cmd.SetContext(ctx)
	defer func() {
		b.cmd.SetOut(nil)
		b.cmd.SetErr(nil)
	}()

	if b.cmd.RunE != nil {
		err = b.cmd.RunE(b.cmd, nil)
	} else {
		b.cmd.Run(b.cmd, nil)
	}
	return buf.String(), err
}

// applyValues sets the bound values on the flag set and returns a restore
// function that puts every touched flag back, so one request's values
// never leak into the next.
func applyValues(fs *pflag.FlagSet, values map[string]string) (func(), error) {
	var restores []func()
	restore := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
	}

	for name, val := range values {
		f := fs.Lookup(name)
		if f == nil {
			restore()
			return nil, errors.NewInternalError(
				fmt.Sprintf("bound value for unknown flag %q", name), nil)
		}

		oldChanged := f.Changed
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			old := sv.GetSlice()
			restores = append(restores, func() {
				sv.Replace(old)
				f.Changed = oldChanged
			})
			if err := sv.Replace(splitList(val)); err != nil {
				restore()
				return nil, errors.NewInternalError(
					fmt.Sprintf("setting flag %q", name), err)
			}
			f.Changed = true
			continue
		}

		old := f.Value.String()
		restores = append(restores, func() {
			f.Value.Set(old)
			f.Changed = oldChanged
		})
		if err := f.Value.Set(val); err != nil {
			restore()
			return nil, errors.NewInternalError(
				fmt.Sprintf("setting flag %q", name), err)
		}
		f.Changed = true
	}

	return restore, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func commandIntro(cmd *cobra.Command) string {
	if cmd.Long != "" {
		return cmd.Long
	}
	return cmd.Short
}
