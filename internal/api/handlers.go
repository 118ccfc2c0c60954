package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/crawler"
	"github.com/sells-group/prospect-cli/internal/model"
)

const (
	maxBodyBytes = 10 << 20

	minCrawlPages = 1
	maxCrawlPages = 50
	minMaxResults = 1
	maxMaxResults = 200
	defaultSource = model.SourceGoogleSearch
)

type parsePromptRequest struct {
	Prompt  string         `json:"prompt"`
	Context map[string]any `json:"context"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   ServiceName,
		Version:   s.version,
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	for _, p := range s.ready {
		if err := p.Ping(r.Context()); err != nil {
			zap.L().Warn("api: readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false, "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func (s *Server) parsePrompt(w http.ResponseWriter, r *http.Request) {
	var req parsePromptRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	resp, err := s.parser.Parse(r.Context(), req.Prompt, req.Context)
	if err != nil {
		failed(w, r, "parse", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Criteria == nil {
		writeError(w, http.StatusBadRequest, "criteria is required")
		return
	}
	if req.MaxResults != nil && (*req.MaxResults < minMaxResults || *req.MaxResults > maxMaxResults) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_results must be between %d and %d", minMaxResults, maxMaxResults))
		return
	}
	if len(req.Sources) == 0 {
		req.Sources = []string{defaultSource}
	}

	resp, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		failed(w, r, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) crawl(w http.ResponseWriter, r *http.Request) {
	var req model.CrawlRequest
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if _, err := crawler.NormalizeURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, "invalid url: "+req.URL)
		return
	}
	if req.MaxPages != nil && (*req.MaxPages < minCrawlPages || *req.MaxPages > maxCrawlPages) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_pages must be between %d and %d", minCrawlPages, maxCrawlPages))
		return
	}

	writeJSON(w, http.StatusOK, s.crawler.Crawl(r.Context(), req))
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var req model.ScoreLeadsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Leads == nil {
		writeError(w, http.StatusBadRequest, "leads is required")
		return
	}
	if req.Criteria == nil {
		writeError(w, http.StatusBadRequest, "criteria is required")
		return
	}
	for i, lead := range req.Leads {
		if lead.CompanyName == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("leads[%d].company_name is required", i))
			return
		}
	}

	writeJSON(w, http.StatusOK, s.scorer.ScoreLoose(req.Leads, req.Criteria))
}

// decode reads a JSON body into dst, answering 400 when it is malformed.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func failed(w http.ResponseWriter, r *http.Request, op string, err error) {
	zap.L().Error("api: "+op+" failed",
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s failed: %v", op, err))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}
