// Package server exposes AppGenie over HTTP: the browser UI, the generation
// API, and the archive download.
package server

import (
	"embed"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/espin086/AppGenie/generator"
)

//go:embed web/index.html
var embeddedStatic embed.FS

// Server handles the UI and the generation API.
type Server struct {
	agent   *generator.Agent
	store   *generationStore
	log     *zap.Logger
	timeout time.Duration
}

// generation is one stored description→draft→archive record.
type generation struct {
	session *generator.Session
	archive []byte
}

type generationStore struct {
	mu          sync.Mutex
	generations map[string]*generation
}

func newStore() *generationStore {
	return &generationStore{generations: make(map[string]*generation)}
}

func (s *generationStore) set(id string, g *generation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[id] = g
}

func (s *generationStore) get(id string) (*generation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.generations[id]
	return g, ok
}

// New builds a server around a generation agent.
func New(agent *generator.Agent, log *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		agent:   agent,
		store:   newStore(),
		log:     log,
		timeout: 120 * time.Second,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generations", s.handleGenerationCreate)
	mux.HandleFunc("/api/generations/", s.handleGenerationByID)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleIndex)
	return s.logMiddleware(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := embeddedStatic.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "ui not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
