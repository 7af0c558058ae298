package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/newthinker/elite/internal/analysis"
	"github.com/newthinker/elite/internal/core"
	"go.uber.org/zap"
)

const rootPrefix = "analyses"

// Recorder archives composite analyses as JSON documents laid out as
// analyses/<type>/<SYMBOL>/<yyyy-mm-dd>/<timestamp>-<uuid>.json so that
// lexical order within a symbol is chronological.
type Recorder struct {
	store  Storage
	newID  func() string
	logger *zap.Logger
}

// NewRecorder wraps a storage backend
func NewRecorder(store Storage, logger ...*zap.Logger) *Recorder {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Recorder{store: store, newID: uuid.NewString, logger: l}
}

func symbolPrefix(typ core.InstrumentType, symbol string) string {
	return fmt.Sprintf("%s/%s/%s/", rootPrefix, typ, strings.ToUpper(symbol))
}

// Record writes the analysis and returns its archive path
func (r *Recorder) Record(ctx context.Context, a *analysis.CompositeAnalysis) (string, error) {
	if a == nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("nil analysis"))
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding analysis: %w", err))
	}

	ts := a.Timestamp.UTC()
	path := fmt.Sprintf("%s%s/%s-%s.json",
		symbolPrefix(a.InstrumentType, a.Symbol),
		ts.Format("2006-01-02"),
		ts.Format("20060102T150405.000Z"),
		r.newID(),
	)
	if err := r.store.Write(ctx, path, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	r.logger.Debug("analysis archived", zap.String("symbol", a.Symbol), zap.String("path", path))
	return path, nil
}

// Load reads one archived analysis
func (r *Recorder) Load(ctx context.Context, path string) (*analysis.CompositeAnalysis, error) {
	data, err := r.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	var a analysis.CompositeAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &a, nil
}

// History returns archive paths for a symbol, oldest first
func (r *Recorder) History(ctx context.Context, typ core.InstrumentType, symbol string) ([]string, error) {
	return r.store.List(ctx, symbolPrefix(typ, symbol))
}

// Latest loads the most recent archived analysis for a symbol
func (r *Recorder) Latest(ctx context.Context, typ core.InstrumentType, symbol string) (*analysis.CompositeAnalysis, error) {
	paths, err := r.History(ctx, typ, symbol)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s %s: %w", typ, symbol, ErrNotFound)
	}
	return r.Load(ctx, paths[len(paths)-1])
}
