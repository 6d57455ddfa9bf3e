package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
	"medremind-backend/domain/events"
)

// RecordAdherenceHandler appends adherence events from notification
// responses and in-app marks
type RecordAdherenceHandler struct {
	adherenceRepo ports.AdherenceRepository
	sink          ports.NotificationSink
	publisher     ports.EventPublisher
	clock         ports.Clock
	logger        *zap.Logger
}

// NewRecordAdherenceHandler creates a new record adherence handler
func NewRecordAdherenceHandler(
	adherenceRepo ports.AdherenceRepository,
	sink ports.NotificationSink,
	publisher ports.EventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
) *RecordAdherenceHandler {
	return &RecordAdherenceHandler{
		adherenceRepo: adherenceRepo,
		sink:          sink,
		publisher:     publisher,
		clock:         clock,
		logger:        logger,
	}
}

// Handle executes the record adherence command. The write is independent of
// the evaluator: the next pass simply observes the new event through its
// dedup check.
func (h *RecordAdherenceHandler) Handle(ctx context.Context, cmd commands.RecordAdherenceCommand) (*entities.AdherenceEvent, error) {
	// Validate command
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	event, err := entities.NewAdherenceEvent(cmd.PatientEmail, cmd.MedicationName, cmd.Taken(), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.adherenceRepo.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append adherence event: %w", err)
	}

	// Retract the reminder from the user's devices, best effort
	if cmd.NotificationID != "" {
		if err := h.sink.Dismiss(ctx, cmd.PatientEmail, cmd.NotificationID); err != nil {
			h.logger.Warn("Failed to dismiss notification",
				zap.String("notificationID", cmd.NotificationID),
				zap.Error(err),
			)
		}
	}

	recorded := events.NewAdherenceRecorded(
		event.ID(),
		event.MedicationName(),
		event.PatientEmail(),
		event.Date(),
		event.Taken(),
		h.clock.Now(),
	)
	if err := h.publisher.Publish(ctx, recorded); err != nil {
		h.logger.Warn("Failed to publish adherence event", zap.Error(err))
	}

	h.logger.Info("Adherence recorded",
		zap.String("patient", cmd.PatientEmail),
		zap.String("medication", cmd.MedicationName),
		zap.Bool("taken", cmd.Taken()),
		zap.String("date", event.Date()),
	)

	return event, nil
}
