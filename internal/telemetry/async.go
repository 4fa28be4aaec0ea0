package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"factor-frenzy/internal/telemetry/domain"
)

// emitTimeout bounds a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after GracefulStop before shutting down OTel providers
// so in-flight async emits can finish. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with its own timeout so the caller is not blocked.
// emitter and event may be nil, in which case nothing happens. Request cancellation does not
// abort an in-flight emit. Failures go to the global zap logger.
func EmitAsync(emitter EventEmitter, ctx context.Context, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			zap.L().Warn("telemetry: async emit failed", zap.String("event_type", event.Type), zap.Error(err))
		}
	}()
}

// NewEvent builds an event with metadata marshaled to JSON. Metadata that cannot be
// marshaled is dropped rather than failing the caller.
func NewEvent(eventType, sessionID, source string, metadata any) *domain.Event {
	ev := &domain.Event{
		Type:      eventType,
		SessionID: sessionID,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			ev.Metadata = b
		}
	}
	return ev
}
