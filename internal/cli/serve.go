package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/developerstoolbox/pypi-extractor/pkg/pypi"
)

const shutdownTimeout = 5 * time.Second

// serveCommand exposes the client as a JSON HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve PyPI package metadata over HTTP",
		Long: `Start an HTTP server exposing the registry client as JSON endpoints:

  GET /v1/users/{username}/packages   package listing for a user
  GET /v1/users/{username}/details    full details for every package of a user
  GET /v1/packages/{name}             details for one package

Every request is proxied to the registry on demand; nothing is cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			logger.Infof("Listening on %s", addr)

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("Shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// server holds the dependencies shared by all HTTP handlers. Each request
// gets its own pypi.Client, constructed with opts (tests inject a fake
// registry base URL through them).
type server struct {
	logger *log.Logger
	opts   []pypi.Option
}

// newRouter builds the chi router with all routes and middleware.
func newRouter(logger *log.Logger, opts ...pypi.Option) http.Handler {
	s := &server{logger: logger, opts: opts}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/v1/users/{username}/packages", s.handleUserPackages)
	r.Get("/v1/users/{username}/details", s.handleUserDetails)
	r.Get("/v1/packages/{name}", s.handlePackageDetails)
	return r
}

// requestLogger tags each request with a UUID and logs method, path and
// duration at debug level.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *server) handleUserPackages(w http.ResponseWriter, r *http.Request) {
	client, err := pypi.NewForUser(chi.URLParam(r, "username"), s.opts...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	packages, err := client.UserPackages(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

func (s *server) handleUserDetails(w http.ResponseWriter, r *http.Request) {
	client, err := pypi.NewForUser(chi.URLParam(r, "username"), s.opts...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	details, err := client.AllPackageDetails(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *server) handlePackageDetails(w http.ResponseWriter, r *http.Request) {
	client := pypi.New(s.opts...)
	details, err := client.PackageDetails(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// statusFor maps a client error to an HTTP status. The client exposes a
// single error kind whose cause lives in the message text, so the mapping
// branches on that text.
func statusFor(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
