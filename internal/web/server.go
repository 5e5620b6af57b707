// Package web serves the landing page, the token and status API and the
// oracle endpoint.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	"prophet-ai/internal/domain"
	"prophet-ai/internal/observability"
	"prophet-ai/internal/oracle"
)

//go:embed templates/index.html
var templateFS embed.FS

// CorrelationHeader carries the request correlation id.
const CorrelationHeader = "X-Correlation-ID"

// FeedView is the read side of the feed exposed to the page.
type FeedView interface {
	Tokens() []domain.ObservedToken
	State() domain.ConnState
}

// SiteConfig holds the fixed display values of the landing page.
type SiteConfig struct {
	Title   string
	TokenCA string
	XLink   string
}

// DefaultSiteConfig returns the stock landing page values.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Title:   "ProphetAI | The Oracle of Pumpfun",
		TokenCA: "PROPHET...XXXXX",
		XLink:   "https://x.com/ProphetAI_Sol",
	}
}

// Server holds HTTP handlers and their dependencies.
type Server struct {
	feed   FeedView
	oracle *oracle.Oracle
	site   SiteConfig
	now    func() time.Time
	logger *zap.SugaredLogger
	page   *template.Template
}

// Options contains configuration for creating a Server.
type Options struct {
	Feed   FeedView
	Oracle *oracle.Oracle // Default: oracle over Feed with the default delay
	Site   *SiteConfig    // Default: DefaultSiteConfig()
	Now    func() time.Time
	Logger *zap.SugaredLogger
}

// NewServer creates a Server. Feed is required.
func NewServer(opts Options) (*Server, error) {
	if opts.Feed == nil {
		return nil, errors.New("web server requires a feed")
	}

	site := DefaultSiteConfig()
	if opts.Site != nil {
		site = *opts.Site
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	o := opts.Oracle
	if o == nil {
		o = oracle.New(oracle.Options{Tokens: opts.Feed, Logger: logger})
	}

	page, err := template.New("index.html").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	return &Server{
		feed:   opts.Feed,
		oracle: o,
		site:   site,
		now:    now,
		logger: logger,
		page:   page,
	}, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "/", s.handleIndex)
	s.route(mux, "/api/tokens", s.handleTokens)
	s.route(mux, "/api/status", s.handleStatus)
	s.route(mux, "/api/oracle", s.handleOracle)
	s.route(mux, "/healthz", s.handleHealthz)
	mux.Handle("/metrics", observability.Handler())

	return s.withCorrelation(mux)
}

// Start runs the HTTP server on addr and shuts down gracefully when ctx ends.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorw("[http] shutdown error", "err", err)
		}
	}()

	s.logger.Infow("[http] listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// route registers h under pattern and counts responses per route.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		h(rec, r)
		observability.RecordHTTPRequest(pattern, rec.statusCode)
	})
}

type ctxKey struct{}

// CorrelationID returns the request correlation id stored in ctx.
func CorrelationID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// withCorrelation reuses or assigns a correlation id, opens a span and logs
// the request.
func (s *Server) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corr := r.Header.Get(CorrelationHeader)
		if corr == "" {
			corr = uuid.New().String()
		}
		w.Header().Set(CorrelationHeader, corr)
		ctx := context.WithValue(r.Context(), ctxKey{}, corr)

		ctx, span := observability.StartSpan(ctx, r.Method+" "+r.URL.Path,
			semconv.HTTPMethod(r.Method),
			semconv.HTTPRoute(r.URL.Path),
			attribute.String("correlation_id", corr),
		)
		defer span.End()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(semconv.HTTPStatusCode(rec.statusCode))
		if rec.statusCode >= 500 {
			span.SetStatus(codes.Error, http.StatusText(rec.statusCode))
		}

		s.logger.Debugw("[http] request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.statusCode,
			"duration", time.Since(start),
			"corr", corr,
		)
	})
}

// statusRecorder wraps ResponseWriter to capture status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
