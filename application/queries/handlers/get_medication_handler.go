package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/application/queries"
	"medremind-backend/application/services"
	"medremind-backend/domain/core/valueobjects"
	pkgerrors "medremind-backend/pkg/errors"
)

// GetMedicationHandler handles single medication queries
type GetMedicationHandler struct {
	medRepo    ports.MedicationRepository
	visibility *services.VisibilityService
	logger     *zap.Logger
}

// NewGetMedicationHandler creates a new get medication handler
func NewGetMedicationHandler(
	medRepo ports.MedicationRepository,
	visibility *services.VisibilityService,
	logger *zap.Logger,
) *GetMedicationHandler {
	return &GetMedicationHandler{
		medRepo:    medRepo,
		visibility: visibility,
		logger:     logger,
	}
}

// Handle executes the get medication query
func (h *GetMedicationHandler) Handle(ctx context.Context, query queries.GetMedicationQuery) (*queries.GetMedicationResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	id, err := valueobjects.NewMedicationIDFromString(query.MedicationID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid medication id")
	}

	med, err := h.medRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load medication: %w", err)
	}

	allowed, err := h.visibility.CanSeePatient(ctx, query.RequesterEmail, med.PatientEmail())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.NewForbiddenError("medication not visible to requester")
	}

	view := toMedicationView(med)
	return &queries.GetMedicationResult{Medication: view}, nil
}
