package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/newthinker/elite/internal/api/response"
	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/service"
)

const defaultHotLimit = 10

// HotScanner ranks a universe of instruments.
type HotScanner interface {
	Hot(ctx context.Context, typ core.InstrumentType, symbols []string, limit int) ([]service.HotItem, error)
}

type hotRequest struct {
	Type  string `query:"type" validate:"omitempty,oneof=equity stock crypto coin cryptocurrency"`
	Limit int    `query:"limit" validate:"gte=1,lte=50"`
}

// HotHandler serves GET /api/v1/hot.
type HotHandler struct {
	scanner HotScanner
}

// NewHotHandler creates the handler.
func NewHotHandler(scanner HotScanner) *HotHandler {
	return &HotHandler{scanner: scanner}
}

// Get ranks the configured universe for ?type= and returns the top ?limit=
func (h *HotHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := hotRequest{
		Type:  strings.ToLower(strings.TrimSpace(q.Get("type"))),
		Limit: defaultHotLimit,
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, core.WrapError(core.ErrInvalidRequest, errors.New("limit must be an integer")))
			return
		}
		req.Limit = n
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

	items, err := h.scanner.Hot(r.Context(), typ, nil, req.Limit)
	if err != nil {
		writeContextError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"type":  typ,
		"items": items,
	})
}
