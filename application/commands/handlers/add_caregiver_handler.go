package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/ports"
	"medremind-backend/domain/events"
)

// AddCaregiverHandler handles caregiver grants on patient accounts
type AddCaregiverHandler struct {
	accountRepo ports.AccountRepository
	publisher   ports.EventPublisher
	clock       ports.Clock
	logger      *zap.Logger
}

// NewAddCaregiverHandler creates a new add caregiver handler
func NewAddCaregiverHandler(
	accountRepo ports.AccountRepository,
	publisher ports.EventPublisher,
	clock ports.Clock,
	logger *zap.Logger,
) *AddCaregiverHandler {
	return &AddCaregiverHandler{
		accountRepo: accountRepo,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// Handle executes the add caregiver command. The target must be an existing
// caregiver account; the grant lands on the patient's record only.
func (h *AddCaregiverHandler) Handle(ctx context.Context, cmd commands.AddCaregiverCommand) error {
	// Validate command
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	caregiver, err := h.accountRepo.GetByEmail(ctx, cmd.CaregiverEmail)
	if err != nil {
		return fmt.Errorf("caregiver account not found: %w", err)
	}
	if !caregiver.IsCaregiver() {
		return fmt.Errorf("account %s is not a caregiver", cmd.CaregiverEmail)
	}

	patient, err := h.accountRepo.GetByEmail(ctx, cmd.PatientEmail)
	if err != nil {
		return fmt.Errorf("patient account not found: %w", err)
	}

	// Runs the role and self-grant checks without persisting; the write
	// below is a set add, so a concurrent grant cannot be lost to a
	// whole-record overwrite
	if err := patient.GrantCaregiver(cmd.CaregiverEmail); err != nil {
		return err
	}

	if err := h.accountRepo.GrantCaregiver(ctx, cmd.PatientEmail, cmd.CaregiverEmail); err != nil {
		return fmt.Errorf("failed to grant caregiver: %w", err)
	}

	event := events.NewCaregiverAdded(cmd.PatientEmail, cmd.CaregiverEmail, h.clock.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish caregiver event", zap.Error(err))
	}

	h.logger.Info("Caregiver added",
		zap.String("patient", cmd.PatientEmail),
		zap.String("caregiver", cmd.CaregiverEmail),
	)

	return nil
}
