// Package server serves registered commands as web forms: an index page
// listing commands, one bridge handler per command, and the embedded
// stylesheet. Concurrency is net/http's request model; the server itself
// keeps no per-request state.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/cmdform/internal/config"
	"github.com/conneroisu/cmdform/internal/logging"
)

//go:embed assets/cmdform.css
var stylesheet []byte

// Server mounts the registry's bridges under the configured base path.
type Server struct {
	config   *config.Config
	registry *Registry
	logger   logging.Logger

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	shutdownOnce sync.Once
}

// New creates a server for the given registry.
func New(cfg *config.Config, registry *Registry, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Server{
		config:   cfg,
		registry: registry,
		logger:   logger.WithComponent("server"),
	}
}

// Handler builds the route table: "/" index, one route per command under
// the base path, the stylesheet, and a health endpoint, all wrapped with
// request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)

	if s.config.Forms.CSSPath != "" {
		mux.HandleFunc(s.config.Forms.CSSPath, s.handleStylesheet)
	}

	base := s.config.Forms.BasePath
	for _, entry := range s.registry.Entries() {
		mux.Handle(base+entry.Name, entry.Bridge)
	}

	mux.HandleFunc("/", s.handleIndex)

	return logging.WatchMiddleware(s.logger)(mux)
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "serving command forms",
		"addr", addr,
		"commands", len(s.registry.Entries()),
	)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.serverMutex.RLock()
		srv := s.httpServer
		s.serverMutex.RUnlock()
		if srv == nil {
			return
		}
		s.logger.Info(ctx, "shutting down")
		shutdownErr = srv.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","commands":%d}`, len(s.registry.Entries()))
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(stylesheet)
}

type indexView struct {
	Title    string
	CSSPath  string
	Commands []indexEntry
}

type indexEntry struct {
	Name  string
	Short string
	Path  string
}

func (s *Server) buildIndexView() indexView {
	view := indexView{
		Title:   "cmdform",
		CSSPath: s.config.Forms.CSSPath,
	}
	base := s.config.Forms.BasePath
	for _, entry := range s.registry.Entries() {
		view.Commands = append(view.Commands, indexEntry{
			Name:  entry.Name,
			Short: entry.Short,
			Path:  base + entry.Name,
		})
	}
	return view
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.IndexComponent().Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "rendering index")
	}
}

// IndexComponent exposes the command index as a templ component for
// embedding into a larger templ layout.
func (s *Server) IndexComponent() templ.Component {
	return templ.FromGoHTML(indexTemplate, s.buildIndexView())
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"trim": strings.TrimSpace,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .CSSPath}}<link rel="stylesheet" href="{{.CSSPath}}">{{end}}
</head>
<body class="cmdform">
<div class="cmdform-card">
<h1>{{.Title}}</h1>
{{if .Commands}}<ul class="cmdform-index">
{{range .Commands}}<li><a href="{{.Path}}">{{.Name}}</a>{{if .Short}} &mdash; {{trim .Short}}{{end}}</li>
{{end}}</ul>
{{else}}<p>No commands registered.</p>
{{end}}</div>
</body>
</html>
`))
