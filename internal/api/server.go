package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/domain"
	"github.com/pbaille/worktime/internal/source"
	"github.com/pbaille/worktime/internal/store"
	"github.com/pbaille/worktime/internal/timesheet"
	"go.uber.org/zap"
)

// Server handles HTTP requests for the worktime API
type Server struct {
	store  *store.Store
	cfg    config.Config
	addr   string
	logger *zap.Logger
}

// New creates a new API server
func New(s *store.Store, cfg config.Config, addr string, logger *zap.Logger) *Server {
	return &Server{store: s, cfg: cfg, addr: addr, logger: logger}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.logger.Info("Starting server", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Reports
	mux.HandleFunc("POST /reports", s.createReport)
	mux.HandleFunc("GET /reports", s.listReports)
	mux.HandleFunc("GET /reports/{id}", s.getReport)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateReportRequest is the request body for calculating a report
type CreateReportRequest struct {
	Text           string  `json:"text"`
	AvailableHours float64 `json:"available_hours,omitempty"`
	Save           bool    `json:"save,omitempty"`
}

// ReportResponse carries a report and, when saved, its run ID
type ReportResponse struct {
	ID     string         `json:"id,omitempty"`
	Report *domain.Report `json:"report"`
	Lines  []string       `json:"lines"`
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	hours := req.AvailableHours
	if hours == 0 {
		hours = s.cfg.AvailableHours
	}

	report, err := timesheet.Calculate(source.SplitLines(req.Text), s.cfg, hours)
	if err != nil {
		s.logger.Debug("Rejected report input", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := ReportResponse{Report: report, Lines: report.Lines()}

	if req.Save {
		run, err := s.store.SaveRun("api", report)
		if err != nil {
			s.logger.Error("Saving run failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.ID = run.ID
		s.logger.Info("Saved run", zap.String("id", run.ID), zap.Float64("grand_total", report.GrandTotal))
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := s.store.FindRun(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ReportResponse{ID: run.ID, Report: run.Report, Lines: run.Report.Lines()})
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	runs, err := s.store.ListRuns(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
