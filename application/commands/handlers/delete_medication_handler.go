package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/ports"
	"medremind-backend/domain/core/valueobjects"
)

// DeleteMedicationHandler handles medication deletion commands
type DeleteMedicationHandler struct {
	medRepo   ports.MedicationRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteMedicationHandler creates a new delete medication handler
func NewDeleteMedicationHandler(
	medRepo ports.MedicationRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteMedicationHandler {
	return &DeleteMedicationHandler{
		medRepo:   medRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the delete medication command. Adherence history for the
// deleted medication stays in the log.
func (h *DeleteMedicationHandler) Handle(ctx context.Context, cmd commands.DeleteMedicationCommand) error {
	// Validate command
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	medID, err := valueobjects.NewMedicationIDFromString(cmd.MedicationID)
	if err != nil {
		return fmt.Errorf("invalid medication ID: %w", err)
	}

	// Verify medication exists and belongs to the requester
	med, err := h.medRepo.GetByID(ctx, medID)
	if err != nil {
		return fmt.Errorf("failed to get medication: %w", err)
	}
	if med.PatientEmail() != cmd.RequesterEmail {
		return fmt.Errorf("medication does not belong to requester")
	}

	if err := h.medRepo.Delete(ctx, medID); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	med.MarkDeleted()
	for _, event := range med.GetUncommittedEvents() {
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish deletion event", zap.Error(err))
		}
	}
	med.MarkEventsAsCommitted()

	h.logger.Info("Medication deleted",
		zap.String("medicationID", cmd.MedicationID),
		zap.String("patient", cmd.RequesterEmail),
	)

	return nil
}
