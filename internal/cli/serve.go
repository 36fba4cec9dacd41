package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pipetrace/pipetrace/pkg/cache"
	"github.com/pipetrace/pipetrace/pkg/debug"
	pterrors "github.com/pipetrace/pipetrace/pkg/errors"
	"github.com/pipetrace/pipetrace/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command for rendering diagrams over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pipeline diagrams over HTTP",
		Long: `Serve starts an HTTP server that renders pipeline expressions on demand:

  GET /render?pipe=<expression>&format=svg|dot|png
  GET /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8712)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// runServe starts the HTTP server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    opts.addr,
		Handler: c.newRouter(store),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newRouter builds the chi router with logging and recovery middleware.
func (c *CLI) newRouter(store cache.Cache) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/render", c.handleRender(store))

	return r
}

// requestLogger logs each request with method, path, and duration, and
// attaches the logger to the request context for handlers.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), c.Logger)))
		c.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// contentTypes maps output formats to their MIME types.
var contentTypes = map[string]string{
	formatDOT: "text/vnd.graphviz",
	formatSVG: "image/svg+xml",
	formatPNG: "image/png",
}

// handleRender renders the pipe query parameter in the requested format.
func (c *CLI) handleRender(store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := loggerFromContext(r.Context())
		expr := r.URL.Query().Get("pipe")
		if expr == "" {
			http.Error(w, "missing pipe parameter", http.StatusBadRequest)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = formatSVG
		}
		if !validFormats[format] {
			http.Error(w, "invalid format: "+format, http.StatusBadRequest)
			return
		}

		pipe, err := pipeline.Parse(expr, builtinRegistry())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		key := cache.ArtifactKey(expr, cache.ArtifactKeyOpts{Format: format})
		data, hit, err := store.Get(r.Context(), key)
		if err != nil {
			logger.Debugf("Cache lookup failed: %v", err)
		}
		if !hit {
			data, err = renderArtifact(r.Context(), pipe, format)
			if err != nil {
				http.Error(w, pterrors.UserMessage(err), statusFor(err))
				return
			}
			if err := store.Set(r.Context(), key, data, 0); err != nil {
				logger.Debugf("Cache store failed: %v", err)
			}
		}

		w.Header().Set("Content-Type", contentTypes[format])
		_, _ = w.Write(data)
	}
}

// renderArtifact produces diagram bytes for one format.
func renderArtifact(ctx context.Context, pipe pipeline.Transformer, format string) ([]byte, error) {
	switch format {
	case formatDOT:
		s, err := debug.RenderDOT(pipe)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case formatPNG:
		return debug.RenderPNG(ctx, pipe)
	default:
		return debug.RenderSVG(ctx, pipe)
	}
}

// statusFor maps render errors to HTTP status codes.
func statusFor(err error) int {
	switch pterrors.GetCode(err) {
	case pterrors.ErrCodeInvalidPipeline, pterrors.ErrCodeMalformedPipeline:
		return http.StatusBadRequest
	case pterrors.ErrCodeGraphvizUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
