package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/events"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
)

// AuditService writes one log line and one counter per session transition.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionRestored, a.handleSessionRestored)
	a.dispatcher.Subscribe(events.EventSessionStarted, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionEnded, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionDiscarded, a.handleSessionDiscarded)
	a.dispatcher.Subscribe(events.EventSessionRevoked, a.handleSessionRevoked)
}

func (a *AuditService) handleSessionEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), eventFields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

// handleSessionRestored fires on every page view behind a session, so it only logs at debug.
func (a *AuditService) handleSessionRestored(_ context.Context, event events.Event) error {
	a.logger.Debug(string(event.Type), eventFields(event)...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *AuditService) handleSessionDiscarded(_ context.Context, event events.Event) error {
	fields := eventFields(event)
	if p, ok := event.Payload.(events.DiscardedPayload); ok {
		fields = append(fields, zap.String("reason", p.Reason))
	}
	a.logger.Info(string(event.Type), fields...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func (a *AuditService) handleSessionRevoked(_ context.Context, event events.Event) error {
	fields := eventFields(event)
	if p, ok := event.Payload.(events.RevokedPayload); ok {
		fields = append(fields,
			zap.String("method", p.Method),
			zap.String("path", p.Path),
			zap.Int("status", p.Status))
	}
	a.logger.Warn(string(event.Type), fields...)
	a.metrics.RecordSessionEvent(string(event.Type))
	return nil
}

func eventFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("session_key", event.SessionKey),
		zap.String("subject", event.Subject),
		zap.Time("at", event.Timestamp),
	}
}
