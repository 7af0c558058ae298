package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/api/response"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/storage/archive"
)

// ArchiveReader reads previously recorded analyses.
type ArchiveReader interface {
	Latest(ctx context.Context, typ core.InstrumentType, symbol string) (*analysis.CompositeAnalysis, error)
	History(ctx context.Context, typ core.InstrumentType, symbol string) ([]string, error)
}

type archiveRequest struct {
	Symbol string `query:"symbol" validate:"required,max=32"`
	Type   string `query:"type" validate:"omitempty,oneof=equity stock crypto coin cryptocurrency"`
}

// HistoryResponse lists archive entries for one instrument, oldest first.
type HistoryResponse struct {
	Symbol  string              `json:"symbol"`
	Type    core.InstrumentType `json:"type"`
	Entries []string            `json:"entries"`
}

// ArchiveHandler serves GET /api/v1/analysis/latest and GET /api/v1/history.
type ArchiveHandler struct {
	archive ArchiveReader
}

// NewArchiveHandler creates the handler.
func NewArchiveHandler(archive ArchiveReader) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// Latest returns the most recent archived analysis for ?symbol=&type=
func (h *ArchiveHandler) Latest(w http.ResponseWriter, r *http.Request) {
	symbol, typ, ok := parseArchiveRequest(w, r)
	if !ok {
		return
	}

	a, err := h.archive.Latest(r.Context(), typ, symbol)
	if err != nil {
		writeArchiveError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, a)
}

// History lists the archive entries for ?symbol=&type=
func (h *ArchiveHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol, typ, ok := parseArchiveRequest(w, r)
	if !ok {
		return
	}

	paths, err := h.archive.History(r.Context(), typ, symbol)
	if err != nil {
		writeArchiveError(w, r, err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	response.JSON(w, r, http.StatusOK, HistoryResponse{Symbol: symbol, Type: typ, Entries: paths})
}

func parseArchiveRequest(w http.ResponseWriter, r *http.Request) (string, core.InstrumentType, bool) {
	q := r.URL.Query()
	req := archiveRequest{
		Symbol: strings.ToUpper(strings.TrimSpace(q.Get("symbol"))),
		Type:   strings.ToLower(strings.TrimSpace(q.Get("type"))),
	}
	if err := validateRequest(r.Context(), &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, err)
		return "", "", false
	}
	typ, err := core.ParseInstrumentType(req.Type)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, core.WrapError(core.ErrInvalidRequest, err))
		return "", "", false
	}
	return req.Symbol, typ, true
}

func writeArchiveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		response.Error(w, r, http.StatusNotFound, core.WrapError(core.ErrNoData, err))
	case r.Context().Err() != nil:
		writeContextError(w, r, err)
	default:
		response.Error(w, r, http.StatusInternalServerError, err)
	}
}
