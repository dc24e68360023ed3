// Package httpapi exposes the deposit engine over a local JSON API so a
// render layer can drive it.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/session"
	"github.com/omnivault/deposit-widget/internal/widget"
)

type Server struct {
	r    chi.Router
	log  *slog.Logger
	opts ServerOpts

	widget  *widget.Widget
	session *session.Session
	sink    *diag.Sink

	http *http.Server
}

type ServerOpts struct {
	Logger     *slog.Logger
	ListenAddr string
	Widget     *widget.Widget
	Session    *session.Session
	Sink       *diag.Sink
}

func NewServer(opts ServerOpts) (*Server, error) {
	if opts.Widget == nil {
		return nil, errors.New("httpapi: nil widget")
	}
	if opts.Session == nil {
		return nil, errors.New("httpapi: nil session")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sink == nil {
		opts.Sink = diag.NewSink(0)
	}
	s := &Server{
		r:       chi.NewRouter(),
		log:     opts.Logger,
		opts:    opts,
		widget:  opts.Widget,
		session: opts.Session,
		sink:    opts.Sink,
	}
	s.routes()
	return s, nil
}

// Start runs the HTTP server until ctx is done, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{Addr: s.opts.ListenAddr, Handler: s.r}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", "addr", s.opts.ListenAddr)
		errCh <- s.http.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.http.Shutdown(context.Background())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

// JSON writes a response body with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ERROR writes an error envelope.
func ERROR(w http.ResponseWriter, statusCode int, err error) {
	JSON(w, statusCode, map[string]any{"error": err.Error()})
}
