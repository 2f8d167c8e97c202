package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"missingmusic/internal/catalog"
	"missingmusic/internal/config"
	"missingmusic/internal/pipeline"
)

type LookupRequest struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

type CheckRequest struct {
	MusicDir string `json:"music_dir"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type AlbumResult struct {
	Folder       string   `json:"folder"`
	Artist       string   `json:"artist"`
	Album        string   `json:"album"`
	Status       string   `json:"status"`
	ReleaseTitle string   `json:"release_title,omitempty"`
	Missing      []string `json:"missing,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type SummaryResponse struct {
	Complete   int `json:"complete"`
	Incomplete int `json:"incomplete"`
	NotFound   int `json:"not_found"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

type JobResponse struct {
	ID          string           `json:"id"`
	MusicDir    string           `json:"music_dir"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"`
	Total       int              `json:"total"`
	Albums      []AlbumResult    `json:"albums"`
	Summary     *SummaryResponse `json:"summary,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   string           `json:"created_at"`
	StartedAt   *string          `json:"started_at,omitempty"`
	CompletedAt *string          `json:"completed_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleLookup runs one synchronous album lookup.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	req.Artist = strings.TrimSpace(req.Artist)
	req.Album = strings.TrimSpace(req.Album)
	if req.Artist == "" || req.Album == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "artist and album are required"})
		return
	}

	out, err := s.lookup.LookupAlbumTracks(r.Context(), req.Album, req.Artist)
	if err != nil {
		s.logger.Warn("Lookup %q by %q failed: %v", req.Album, req.Artist, err)
		resp := ErrorResponse{Error: err.Error()}
		var fe *catalog.FetchError
		if errors.As(err, &fe) {
			resp.Kind = fe.Kind.String()
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// handleCheck starts a background check of a music directory.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CheckRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	jobConfig := s.config
	if dir := strings.TrimSpace(req.MusicDir); dir != "" {
		jobConfig.MusicDir = config.ExpandHome(dir)
	}
	if err := jobConfig.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	job := s.jobMgr.CreateJob(jobConfig.MusicDir, cancel)
	s.logger.Info("Created job %s for %s", job.ID, job.MusicDir)

	go s.processJob(ctx, cancel, job.ID, jobConfig)

	writeJSON(w, http.StatusAccepted, s.jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = s.jobToResponse(job)
	}

	writeJSON(w, http.StatusOK, responses)
}

// handleJobAction serves GET /api/jobs/{id} and POST /api/jobs/{id}/cancel.
func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}
	jobID := parts[0]

	if r.Method == http.MethodGet && len(parts) == 1 {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s.jobToResponse(job))
		return
	}

	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}

		if job.Cancel != nil {
			job.Cancel()
		}
		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			j.Status = StatusCancelled
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": string(StatusCancelled)})
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) processJob(ctx context.Context, cancel context.CancelFunc, jobID string, cfg config.Config) {
	defer cancel()

	if ctx.Err() != nil {
		s.logger.Info("Job %s cancelled before start", jobID)
		return
	}
	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.Status = StatusRunning
	})
	s.logger.Info("Starting job %s", jobID)

	hooks := pipeline.Hooks{
		OnAlbumsFound: func(total int) {
			s.jobMgr.UpdateJob(jobID, func(j *Job) { j.Total = total })
		},
		OnProgress: func(r pipeline.AlbumReport) {
			s.jobMgr.UpdateJob(jobID, func(j *Job) {
				j.Progress++
				j.Reports = append(j.Reports, r)
			})
		},
	}

	sum, err := pipeline.Run(ctx, cfg, s.logger, s.lookup, hooks)
	if err != nil {
		s.logger.Error("Job %s failed: %v", jobID, err)
		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			if ctx.Err() != nil {
				j.Status = StatusCancelled
			} else {
				j.Status = StatusFailed
			}
			j.Error = err.Error()
		})
		return
	}

	s.jobMgr.UpdateJob(jobID, func(j *Job) {
		j.Reports = sum.Reports
		j.Summary = &sum
		j.Status = StatusCompleted
	})
	s.logger.Info("Job %s completed: %d complete, %d incomplete, %d not found, %d failed",
		jobID, sum.Complete, sum.Incomplete, sum.NotFound, sum.Failed)
}

func albumResult(r pipeline.AlbumReport) AlbumResult {
	res := AlbumResult{
		Folder:       r.Album.Folder,
		Artist:       r.Album.Artist,
		Album:        r.Album.Title,
		Status:       string(r.Outcome.Status),
		ReleaseTitle: r.Outcome.ReleaseTitle,
		Missing:      r.Missing,
	}
	switch {
	case r.Skipped:
		res.Status = "skipped"
	case r.Err != nil:
		res.Status = "error"
		res.Error = r.Err.Error()
	}
	return res
}

func (s *Server) jobToResponse(job Job) *JobResponse {
	const layout = "2006-01-02 15:04:05"

	resp := &JobResponse{
		ID:        job.ID,
		MusicDir:  job.MusicDir,
		Status:    job.Status,
		Progress:  job.Progress,
		Total:     job.Total,
		Albums:    make([]AlbumResult, len(job.Reports)),
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(layout),
	}
	for i, r := range job.Reports {
		resp.Albums[i] = albumResult(r)
	}
	if job.Summary != nil {
		resp.Summary = &SummaryResponse{
			Complete:   job.Summary.Complete,
			Incomplete: job.Summary.Incomplete,
			NotFound:   job.Summary.NotFound,
			Skipped:    job.Summary.Skipped,
			Failed:     job.Summary.Failed,
		}
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format(layout)
		resp.StartedAt = &started
	}
	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(layout)
		resp.CompletedAt = &completed
	}

	return resp
}
