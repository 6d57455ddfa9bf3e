package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"medremind-backend/application/queries"
	"medremind-backend/application/services"
	"medremind-backend/domain/core/entities"
)

// ListMedicationsHandler handles medication list queries
type ListMedicationsHandler struct {
	visibility *services.VisibilityService
	logger     *zap.Logger
}

// NewListMedicationsHandler creates a new list medications handler
func NewListMedicationsHandler(visibility *services.VisibilityService, logger *zap.Logger) *ListMedicationsHandler {
	return &ListMedicationsHandler{
		visibility: visibility,
		logger:     logger,
	}
}

// Handle executes the list medications query
func (h *ListMedicationsHandler) Handle(ctx context.Context, query queries.ListMedicationsQuery) (*queries.ListMedicationsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	meds, err := h.visibility.VisibleMedications(ctx, query.RequesterEmail)
	if err != nil {
		return nil, err
	}

	views := make([]queries.MedicationView, 0, len(meds))
	for _, m := range meds {
		views = append(views, toMedicationView(m))
	}

	return &queries.ListMedicationsResult{
		Medications: views,
		Total:       len(views),
	}, nil
}

func toMedicationView(m *entities.Medication) queries.MedicationView {
	return queries.MedicationView{
		ID:           m.ID().String(),
		Name:         m.Name(),
		Dosage:       m.Dosage(),
		PatientEmail: m.PatientEmail(),
		StartDate:    m.StartDate(),
		EndDate:      m.EndDate(),
		TimeOfDay:    m.TimeOfDay(),
		Notes:        m.Notes(),
		CreatedAt:    m.CreatedAt().Format(time.RFC3339),
		UpdatedAt:    m.UpdatedAt().Format(time.RFC3339),
	}
}
