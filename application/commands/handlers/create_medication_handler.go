package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
)

// CreateMedicationHandler handles medication registration commands
type CreateMedicationHandler struct {
	medRepo     ports.MedicationRepository
	accountRepo ports.AccountRepository
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewCreateMedicationHandler creates a new handler instance
func NewCreateMedicationHandler(
	medRepo ports.MedicationRepository,
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *CreateMedicationHandler {
	return &CreateMedicationHandler{
		medRepo:     medRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the create medication command
func (h *CreateMedicationHandler) Handle(ctx context.Context, cmd commands.CreateMedicationCommand) (*entities.Medication, error) {
	// Validate command
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	// Only patient accounts own medications
	account, err := h.accountRepo.GetByEmail(ctx, cmd.PatientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if !account.IsPatient() {
		return nil, fmt.Errorf("only patients can register medications")
	}

	med, err := entities.NewMedication(
		cmd.PatientEmail,
		cmd.Name,
		cmd.Dosage,
		cmd.StartDate,
		cmd.EndDate,
		cmd.TimeOfDay,
		cmd.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := h.medRepo.Save(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to save medication: %w", err)
	}

	// Publish creation events, best effort
	for _, event := range med.GetUncommittedEvents() {
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish medication event",
				zap.String("medicationID", med.ID().String()),
				zap.Error(err),
			)
		}
	}
	med.MarkEventsAsCommitted()

	h.logger.Info("Medication created",
		zap.String("medicationID", med.ID().String()),
		zap.String("patient", cmd.PatientEmail),
		zap.String("name", cmd.Name),
	)

	return med, nil
}
