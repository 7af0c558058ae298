// Package handler implements the JSON endpoints of the HTTP API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/api/response"
	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
)

// Analyzer produces a composite analysis for one instrument.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, typ core.InstrumentType) (*analysis.CompositeAnalysis, error)
}

// Narrator turns an analysis into prose.
type Narrator interface {
	Narrate(ctx context.Context, a *analysis.CompositeAnalysis) (string, error)
}

type analysisRequest struct {
	Symbol  string `query:"symbol" validate:"required,max=32"`
	Type    string `query:"type" validate:"omitempty,oneof=equity stock crypto coin cryptocurrency"`
	Narrate bool   `query:"narrate"`
}

// AnalysisResponse wraps the engine output with the optional narrative.
type AnalysisResponse struct {
	Analysis  *analysis.CompositeAnalysis `json:"analysis"`
	Narrative string                      `json:"narrative,omitempty"`
}

// AnalysisHandler serves GET /api/v1/analysis.
type AnalysisHandler struct {
	analyzer Analyzer
	narrator Narrator
	logger   *zap.Logger
}

// NewAnalysisHandler creates the handler. narrator may be nil.
func NewAnalysisHandler(analyzer Analyzer, narrator Narrator, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{analyzer: analyzer, narrator: narrator, logger: logger}
}

// Get analyses ?symbol=&type=&narrate=
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := analysisRequest{
		Symbol: strings.TrimSpace(q.Get("symbol")),
		Type:   strings.ToLower(strings.TrimSpace(q.Get("type"))),
	}
	if v := q.Get("narrate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, core.WrapError(core.ErrInvalidRequest, errors.New("narrate must be a boolean")))
			return
		}
		req.Narrate = b
	}
	if err := validateRequest(r.Context(), &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, err)
		return
	}
	typ, err := core.ParseInstrumentType(req.Type)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, core.WrapError(core.ErrInvalidRequest, err))
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Symbol, typ)
	if err != nil {
		writeContextError(w, r, err)
		return
	}

	resp := AnalysisResponse{Analysis: result}
	if req.Narrate && h.narrator != nil {
		text, err := h.narrator.Narrate(r.Context(), result)
		if err != nil {
			h.logger.Warn("narration skipped", zap.String("symbol", req.Symbol), zap.Error(err))
		} else {
			resp.Narrative = text
		}
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// writeContextError renders the only error kind the service returns
func writeContextError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		response.Error(w, r, http.StatusGatewayTimeout, core.WrapError(core.ErrCollectorTimeout, err))
		return
	}
	response.Error(w, r, http.StatusServiceUnavailable, err)
}
