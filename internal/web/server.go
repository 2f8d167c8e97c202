package web

import (
	"context"
	"net/http"

	"missingmusic/internal/config"
	"missingmusic/internal/logger"
	"missingmusic/internal/pipeline"
)

type Server struct {
	ctx    context.Context
	jobMgr *JobManager
	config config.Config
	logger *logger.Logger
	lookup pipeline.Looker
}

// NewServer creates a server whose background jobs stop when ctx is cancelled.
func NewServer(ctx context.Context, jobMgr *JobManager, cfg config.Config, log *logger.Logger, lookup pipeline.Looker) *Server {
	return &Server{
		ctx:    ctx,
		jobMgr: jobMgr,
		config: cfg,
		logger: log,
		lookup: lookup,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/lookup", s.handleLookup)
	mux.HandleFunc("/api/check", s.handleCheck)
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
