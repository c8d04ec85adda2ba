package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/averyholdt/socialforge/internal/history"
	"github.com/averyholdt/socialforge/internal/pipeline"
)

// Server exposes the synthesis pipeline and run history over HTTP. The
// history store is optional; without it the run endpoints return 404 and
// generate runs are not persisted.
type Server struct {
	pipe   *pipeline.Pipeline
	store  *history.Store
	logger *log.Logger
}

func NewServer(pipe *pipeline.Pipeline, store *history.Store, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{pipe: pipe, store: store, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/generate", s.handleGenerate)
	mux.HandleFunc("/v1/adapt", s.handleAdapt)
	mux.HandleFunc("/v1/score", s.handleScore)
	mux.HandleFunc("/v1/runs", s.handleRuns)
	mux.HandleFunc("/v1/runs/", s.handleRunByID)
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/system/status", s.handleSystemStatus)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, err error) {
	var pe *pipeline.Error
	if errors.As(err, &pe) {
		writeJSON(w, pe.Status, map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    pe.Code,
				"message": pe.Message,
				"stage":   pipeline.StageNameFromError(err),
			},
		})
		return
	}
	writeJSON(w, 500, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    pipeline.CodeInternal,
			"message": err.Error(),
			"stage":   pipeline.StageNameFromError(err),
		},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func decodeJSON(r *http.Request, dst any) error {
	blob, err := readBody(r)
	if err != nil {
		return pipeline.NewInvalidInputError("read body: " + err.Error())
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return pipeline.NewInvalidInputError("parse body: " + err.Error())
	}
	return nil
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req pipeline.Request
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, err)
		return
	}

	// Stored outcomes supplement whatever the caller sent inline.
	if s.store != nil {
		samples, err := s.store.HistoricalSamples(req.Context.Platform, 100)
		if err != nil {
			s.logger.Printf("historical lookup failed: %v", err)
		} else {
			req.Historical = append(req.Historical, samples...)
		}
	}

	result, err := s.pipe.Run(r.Context(), req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	env := pipeline.BuildResponse(result)

	if s.store != nil {
		if err := s.store.SaveRun(req.Text, result, env.ReportMarkdown); err != nil {
			s.logger.Printf("save run %s failed: %v", result.RunID, err)
		}
	}
	writeJSON(w, 200, env)
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Deliverable pipeline.Deliverable  `json:"deliverable"`
		Target      pipeline.Platform     `json:"target_platform"`
		Rescore     bool                  `json:"rescore"`
		Prompt      pipeline.Prompt       `json:"prompt"`
		Context     pipeline.ContextHints `json:"context"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, err)
		return
	}

	adapted, err := pipeline.Adapt(req.Deliverable, req.Target)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	if req.Rescore {
		signals := pipeline.SignalSet{}
		if strings.TrimSpace(req.Prompt.Text) != "" {
			signals, err = s.pipe.Classify(req.Prompt)
			if err != nil {
				writeAPIError(w, err)
				return
			}
		}
		scores := s.pipe.ScoreDeliverable(adapted, signals, pipeline.ScoreContext{Hints: req.Context})
		adapted.Scores = &scores
	}
	writeJSON(w, 200, map[string]any{"ok": true, "deliverable": adapted})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Deliverable pipeline.Deliverable        `json:"deliverable"`
		Prompt      pipeline.Prompt             `json:"prompt"`
		Context     pipeline.ContextHints       `json:"context"`
		Historical  []pipeline.HistoricalSample `json:"historical_data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeAPIError(w, err)
		return
	}
	if strings.TrimSpace(req.Deliverable.Text) == "" {
		writeAPIError(w, pipeline.NewInvalidInputError("deliverable text is empty"))
		return
	}

	signals := pipeline.SignalSet{}
	if strings.TrimSpace(req.Prompt.Text) != "" {
		var err error
		signals, err = s.pipe.Classify(req.Prompt)
		if err != nil {
			writeAPIError(w, err)
			return
		}
	}

	if s.store != nil {
		samples, err := s.store.HistoricalSamples(req.Deliverable.Platform, 100)
		if err == nil {
			req.Historical = append(req.Historical, samples...)
		}
	}

	scores := s.pipe.ScoreDeliverable(req.Deliverable, signals, pipeline.ScoreContext{
		Hints:      req.Context,
		Historical: req.Historical,
	})
	writeJSON(w, 200, map[string]any{"ok": true, "scores": scores})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if s.store == nil {
		writeAPIError(w, pipeline.NewNotFoundError("run history is not enabled"))
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	runs, err := s.store.ListRuns(limit)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "runs": runs})
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeAPIError(w, pipeline.NewNotFoundError("run history is not enabled"))
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		if !methodOnly(w, r, http.MethodGet) {
			return
		}
		rec, err := s.store.GetRun(parts[0])
		if err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true, "run": rec})
	case len(parts) == 2 && parts[1] == "outcomes":
		if !methodOnly(w, r, http.MethodPost) {
			return
		}
		var in history.OutcomeInput
		if err := decodeJSON(r, &in); err != nil {
			writeAPIError(w, err)
			return
		}
		if strings.TrimSpace(in.DeliverableID) == "" {
			writeAPIError(w, pipeline.NewInvalidInputError("deliverable_id is required"))
			return
		}
		if err := s.store.RecordOutcome(parts[0], in); err != nil {
			writeAPIError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
	default:
		writeAPIError(w, pipeline.NewNotFoundError("unknown runs path"))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":      true,
		"history": s.store != nil,
	})
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	status := s.pipe.Status()
	writeJSON(w, 200, map[string]any{
		"ok":     true,
		"status": status,
	})
}
