package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tunegrab/tunegrab/internal/config"
	"github.com/tunegrab/tunegrab/internal/logger"
	"github.com/tunegrab/tunegrab/internal/middleware"
	"github.com/tunegrab/tunegrab/internal/pipeline"
	"github.com/tunegrab/tunegrab/internal/ytdlp"
)

// Server holds dependencies for handling HTTP requests.
type Server struct {
	cfg    config.Config
	runner ytdlp.Runner
	orch   *pipeline.Orchestrator
}

// NewServer constructs a new HTTP server instance.
func NewServer(cfg config.Config, runner ytdlp.Runner, orch *pipeline.Orchestrator) *Server {
	return &Server{
		cfg:    cfg,
		runner: runner,
		orch:   orch,
	}
}

// NewHandler builds the top-level HTTP handler: endpoints wired on a mux,
// wrapped with request logging and the optional API key check.
func NewHandler(cfg config.Config, runner ytdlp.Runner, orch *pipeline.Orchestrator) http.Handler {
	s := NewServer(cfg, runner, orch)

	mux := http.NewServeMux()
	mux.HandleFunc("/info", s.InfoHandler)
	mux.HandleFunc("/download", s.DownloadHandler)
	mux.HandleFunc("/healthz", s.HealthzHandler)

	return middleware.RequestID(middleware.APIKeyAuth(cfg.APIKey, mux))
}

// HealthzHandler responds to health checks.
func (s *Server) HealthzHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger.Debug(ctx, "health check requested")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type infoRequest struct {
	URL string `json:"url"`
}

type infoResponse struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Artist    string `json:"artist"`
}

// InfoHandler resolves metadata for a media URL without downloading it.
func (s *Server) InfoHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Warn(ctx, "invalid method for info endpoint", logger.Fields{
			"method": r.Method,
		})
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body infoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Error(ctx, "failed to decode request body", err)
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(body.URL) == "" {
		logger.Warn(ctx, "missing url field in info request")
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	meta, err := ytdlp.ResolveMetadata(ctx, s.runner, body.URL)
	if err != nil {
		logger.Error(ctx, "failed to resolve media info", err, logger.Fields{
			"url": body.URL,
		})
		writeError(w, http.StatusInternalServerError, "could not fetch info: "+err.Error())
		return
	}

	logger.Info(ctx, "resolved media info", logger.Fields{
		"url":   body.URL,
		"title": meta.Title,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infoResponse{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Artist:    meta.Artist,
	}); err != nil {
		logger.Error(ctx, "failed to encode response", err)
	}
}

type downloadRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
	Artist string `json:"artist"`
}

// DownloadHandler validates the request and hands the response over to the
// download pipeline, which owns it from there.
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		logger.Warn(ctx, "invalid method for download endpoint", logger.Fields{
			"method": r.Method,
		})
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Error(ctx, "failed to decode request body", err)
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(body.URL) == "" {
		logger.Warn(ctx, "missing url field in download request")
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if strings.TrimSpace(body.Format) == "" {
		logger.Warn(ctx, "missing format field in download request")
		writeError(w, http.StatusBadRequest, "format is required")
		return
	}

	s.orch.Run(w, r, pipeline.DownloadRequest{
		URL:    body.URL,
		Format: body.Format,
		Artist: strings.TrimSpace(body.Artist),
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
