// Package api exposes lead discovery over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "prospect-cli"

// Parser turns a prompt into criteria.
type Parser interface {
	Parse(ctx context.Context, prompt string, promptCtx map[string]any) (*model.ParsePromptResponse, error)
}

// Searcher finds candidate companies.
type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
}

// Crawler crawls a company website.
type Crawler interface {
	Crawl(ctx context.Context, req model.CrawlRequest) *model.CrawlResponse
}

// Scorer ranks leads against loosely typed criteria.
type Scorer interface {
	ScoreLoose(leads []model.Lead, raw any) *model.ScoreLeadsResult
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the collaborators behind the HTTP routes.
type Server struct {
	parser   Parser
	searcher Searcher
	crawler  Crawler
	scorer   Scorer
	ready    []Pinger
	version  string
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithReadinessCheck adds a dependency that /ready pings.
func WithReadinessCheck(p Pinger) Option {
	return func(s *Server) { s.ready = append(s.ready, p) }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server.
func New(parser Parser, searcher Searcher, crawler Crawler, scorer Scorer, opts ...Option) *Server {
	s := &Server{
		parser:   parser,
		searcher: searcher,
		crawler:  crawler,
		scorer:   scorer,
		version:  "dev",
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the router with middleware and every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(instrument)

	r.Get("/health", s.health)
	r.Get("/ready", s.readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/discover", func(r chi.Router) {
		r.Post("/parse-prompt", s.parsePrompt)
		r.Post("/search", s.search)
		r.Post("/crawl", s.crawl)
		r.Post("/score", s.score)
	})

	return r
}
