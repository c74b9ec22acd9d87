package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/obsexport/pkg/buildinfo"
	"github.com/matzehuels/obsexport/pkg/cache"
	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/observable"
	"github.com/matzehuels/obsexport/pkg/pipeline"
	"github.com/matzehuels/obsexport/pkg/render"
)

const (
	requestIDHeader = "X-Request-Id"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve notebook exports over HTTP",
		Long: `Serve answers GET /notebooks/{name}.{format} with the export of a notebook,
e.g. /notebooks/@user/notebook.js or /notebooks/0123456789abcdef@12.md.

Query parameters: ignore (repeatable), transitive, manifest, detailed and
refresh. Requests may carry "Authorization: ApiKey <key>" for private
notebooks; responses fetched with a key are cached apart from public ones.
The api_key of the config file is not used by the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	store, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &server{
		cache:      store,
		logger:     c.Logger,
		newFetcher: c.serveFetcher(store),
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("listening", "addr", addr, "cache", c.Config.Cache.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// serveFetcher returns the fetcher factory of the server. Each request
// fetches with its own API key only: the api_key of the config file is never
// used, so anonymous callers cannot read the operator's private notebooks.
func (c *CLI) serveFetcher(store cache.Cache) func(apiKey string, keyer cache.Keyer) pipeline.Fetcher {
	return func(apiKey string, keyer cache.Keyer) pipeline.Fetcher {
		return observable.NewClient(store, observable.Config{
			BaseURL:   c.Config.BaseURL,
			APIKey:    apiKey,
			TTL:       c.Config.Cache.TTL.Duration,
			Keyer:     keyer,
			UserAgent: buildinfo.UserAgent(),
		})
	}
}

// =============================================================================
// Server
// =============================================================================

// server serves exports through one pipeline runner per request, scoped to
// the request's API key.
type server struct {
	cache      cache.Cache
	logger     *log.Logger
	newFetcher func(apiKey string, keyer cache.Keyer) pipeline.Fetcher
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Get("/notebooks/*", s.export)
	return r
}

// requestID tags each request with an id, taken from the X-Request-Id
// header or generated, and attaches a logger carrying it.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) export(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	name, format, err := splitExportPath(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Notebook:          name,
		Format:            format,
		Ignore:            q["ignore"],
		TransitiveExports: queryBool(q.Get("transitive")),
		Manifest:          queryBool(q.Get("manifest")),
		Detailed:          queryBool(q.Get("detailed")),
		Refresh:           queryBool(q.Get("refresh")),
	}

	apiKey := apiKeyFrom(r)
	keyer := scopedKeyer(apiKey)
	runner := pipeline.NewRunner(s.newFetcher(apiKey, keyer), s.cache, keyer, logger)

	start := time.Now()
	result, err := runner.Execute(r.Context(), opts)
	if err != nil {
		logger.Warn("export failed", "notebook", name, "format", format, "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.Format.ContentType())
	w.Header().Set("X-Cache", cacheStatus(result.CacheHit))
	w.Header().Set("ETag", strconv.Quote(result.SourceHash[:16]+"-"+string(result.Format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Output)

	logger.Info("served export",
		"notebook", name,
		"format", result.Format,
		"bytes", len(result.Output),
		"cached", result.CacheHit,
		"duration", time.Since(start))
}

// splitExportPath splits "@user/notebook.md" into the notebook name and the
// format. The format defaults to js when the path has no extension.
func splitExportPath(p string) (string, render.Format, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "notebook name is required")
	}
	i := strings.LastIndex(p, ".")
	if i < 0 || strings.Contains(p[i:], "/") {
		return p, pipeline.DefaultFormat, nil
	}
	f, err := render.ParseFormat(p[i+1:])
	if err != nil {
		return "", "", err
	}
	return p[:i], f, nil
}

// apiKeyFrom returns the key of an "Authorization: ApiKey <key>" or
// "Authorization: Bearer <key>" header.
func apiKeyFrom(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	for _, scheme := range []string{"ApiKey ", "Bearer "} {
		if len(auth) > len(scheme) && strings.EqualFold(auth[:len(scheme)], scheme) {
			return strings.TrimSpace(auth[len(scheme):])
		}
	}
	return ""
}

// scopedKeyer keeps cache entries fetched with an API key apart from public
// ones and from those of other keys.
func scopedKeyer(apiKey string) cache.Keyer {
	if apiKey == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), "key:"+cache.Hash([]byte(apiKey))[:12]+":")
}

func queryBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err, code), errorBody{Error: msg, Code: code})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error, code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidName, errors.ErrCodeInvalidPattern, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
