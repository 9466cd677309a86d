// Package handler serves the web interface for listing, editing and filling
// in text templates.
package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/PressureTank/TextGen/backend/generator"
	"github.com/PressureTank/TextGen/backend/template"
)

// Store is the storage the web layer needs.
type Store interface {
	template.Database
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	// SessionSecret signs and encrypts the flash message cookie.
	SessionSecret string
	// SecureCookies marks the flash cookie as HTTPS only.
	SecureCookies bool
	// Clock supplies the time used for the greeting. Defaults to local wall-clock time.
	Clock generator.Clock
}

// Server routes requests to the template handlers. It holds no global state;
// everything it needs is passed to NewServer.
type Server struct {
	db      Store
	logger  *zap.Logger
	views   *views
	flashes *flashes
	clock   generator.Clock
	router  *mux.Router
}

func NewServer(db Store, logger *zap.Logger, opts Options) (*Server, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	f, err := newFlashes(opts.SessionSecret, opts.SecureCookies, logger)
	if err != nil {
		return nil, fmt.Errorf("create flash store: %w", err)
	}
	clock := opts.Clock
	if clock == nil {
		clock = generator.LocalClock(nil)
	}

	s := &Server{
		db:      db,
		logger:  logger,
		views:   v,
		flashes: f,
		clock:   clock,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(LoggingMiddleware(s.logger))

	r.HandleFunc("/", s.ListHandler).Methods(http.MethodGet)
	r.HandleFunc("/add", s.AddFormHandler).Methods(http.MethodGet)
	r.HandleFunc("/add", s.AddHandler).Methods(http.MethodPost)
	r.HandleFunc("/edit/{id:[0-9]+}", s.EditFormHandler).Methods(http.MethodGet)
	r.HandleFunc("/edit/{id:[0-9]+}", s.EditHandler).Methods(http.MethodPost)
	r.HandleFunc("/delete/{id:[0-9]+}", s.DeleteHandler).Methods(http.MethodPost)
	r.HandleFunc("/generate/{id:[0-9]+}", s.GenerateFormHandler).Methods(http.MethodGet)
	r.HandleFunc("/generate/{id:[0-9]+}", s.GenerateHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases what the server owns. The store is closed when it
// implements io.Closer. Call it after the HTTP server has stopped.
func (s *Server) Close() error {
	var err error
	if c, ok := s.db.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// render shows a view together with any pending flash messages.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data page) {
	data.Messages = append(s.flashes.pop(w, r), data.Messages...)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.render(w, name, data); err != nil {
		s.logger.Error("Error rendering view", zap.String("view", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect queues msg for the next page and sends the client to url.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, url, msg string) {
	if msg != "" {
		s.flashes.add(w, r, msg)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Error handling request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
