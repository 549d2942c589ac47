package metrics

import (
	"context"

	"weekly-menu/internal/shared"

	"go.uber.org/zap"
)

// Recorder fans LLM execution metadata out to the SQLite store and the
// Prometheus collectors. Recording never fails the caller.
type Recorder struct {
	store      *Store
	collectors *Collectors
	logger     *zap.Logger
}

// NewRecorder creates a Recorder. Either sink may be nil.
func NewRecorder(store *Store, collectors *Collectors, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, collectors: collectors, logger: logger}
}

// Record stores meta and updates the collectors.
func (r *Recorder) Record(ctx context.Context, meta shared.AgentMeta) {
	if r == nil {
		return
	}
	if r.collectors != nil {
		r.collectors.ObserveLLM(meta)
	}
	if r.store != nil {
		if err := r.store.RecordMeta(ctx, meta); err != nil {
			r.logger.Warn("failed to record execution metric",
				zap.String("agent", meta.AgentName),
				zap.Error(err),
			)
		}
	}
}
