package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	logpkg "github.com/cognicore/audimatch/internal/logger"
	"github.com/cognicore/audimatch/internal/metrics"
	"github.com/cognicore/audimatch/pkg/audimatch"
	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/draft"
	"github.com/cognicore/audimatch/pkg/audimatch/ingest"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/keywords"
)

// TopAudiences is the length of the short ranking in analyze responses.
const TopAudiences = 3

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"` // text (default) or html
	TopN    *int   `json:"top_n,omitempty"`
}

// AnalyzeResponse is the result of POST /analyze.
type AnalyzeResponse struct {
	Keywords    []keywords.Keyword `json:"keywords"`
	Ranking     []audience.Score   `json:"ranking"`
	TopAudience *audience.Score    `json:"top_audience,omitempty"`
	TopThree    []audience.Score   `json:"top_three"`
	Heat        float64            `json:"heat"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Audience string  `json:"audience"`
	Seed     *uint64 `json:"seed,omitempty"`
}

// AudiencesResponse is the result of GET /audiences.
type AudiencesResponse struct {
	Audiences []string `json:"audiences"`
}

// ListAudiences handles GET /audiences.
func (s *Server) ListAudiences(w http.ResponseWriter, r *http.Request) {
	names := s.engine.Audiences()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, AudiencesResponse{Audiences: names})
}

// Analyze handles POST /analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Content == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "content is required")
		return
	}

	content := req.Content
	format := strings.ToLower(req.Format)
	switch format {
	case "", "text":
		format = "text"
	case "html":
		content = ingest.PlainText(content)
	default:
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("format must be text or html, got %q", req.Format))
		return
	}

	topN := s.engine.TopN()
	if req.TopN != nil {
		if *req.TopN <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "top_n must be positive")
			return
		}
		topN = *req.TopN
	}

	a := s.engine.AnalyzeTop(content, topN)
	metrics.AnalysesTotal.WithLabelValues(format).Inc()
	metrics.HeatScore.Observe(a.Heat)

	writeJSON(w, http.StatusOK, analysisToResponse(a))
}

func analysisToResponse(a audimatch.Analysis) AnalyzeResponse {
	resp := AnalyzeResponse{
		Keywords: a.Keywords,
		Ranking:  a.Ranking,
		TopThree: a.TopN(TopAudiences),
		Heat:     a.Heat,
	}
	if resp.Keywords == nil {
		resp.Keywords = []keywords.Keyword{}
	}
	if resp.Ranking == nil {
		resp.Ranking = []audience.Score{}
	}
	if resp.TopThree == nil {
		resp.TopThree = []audience.Score{}
	}
	if top, ok := a.Top(); ok {
		resp.TopAudience = &top
	}
	return resp
}

// Generate handles POST /generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Audience == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "audience is required")
		return
	}
	r = r.WithContext(logpkg.With(r.Context(), zap.String("audience", req.Audience)))

	var (
		art draft.Article
		err error
	)
	if req.Seed != nil {
		art, err = s.engine.GenerateSeeded(req.Audience, *req.Seed)
	} else {
		art, err = s.engine.Generate(req.Audience)
	}
	if err != nil {
		outcome := "error"
		if errors.Is(err, internalerr.ErrSegmentNotFound) {
			outcome = "not_found"
		}
		metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
		s.handleDomainError(w, r, err)
		return
	}

	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, art)
}
