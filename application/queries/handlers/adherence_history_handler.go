package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"medremind-backend/application/ports"
	"medremind-backend/application/queries"
	"medremind-backend/application/services"
	pkgerrors "medremind-backend/pkg/errors"
)

// AdherenceHistoryHandler handles adherence log queries
type AdherenceHistoryHandler struct {
	adherenceRepo ports.AdherenceRepository
	visibility    *services.VisibilityService
	logger        *zap.Logger
}

// NewAdherenceHistoryHandler creates a new adherence history handler
func NewAdherenceHistoryHandler(
	adherenceRepo ports.AdherenceRepository,
	visibility *services.VisibilityService,
	logger *zap.Logger,
) *AdherenceHistoryHandler {
	return &AdherenceHistoryHandler{
		adherenceRepo: adherenceRepo,
		visibility:    visibility,
		logger:        logger,
	}
}

// Handle executes the adherence history query. Events are sorted newest
// first after collection; the store makes no ordering promise.
func (h *AdherenceHistoryHandler) Handle(ctx context.Context, query queries.AdherenceHistoryQuery) (*queries.AdherenceHistoryResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	allowed, err := h.visibility.CanSeePatient(ctx, query.RequesterEmail, query.PatientEmail)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkgerrors.NewForbiddenError("adherence history not visible to requester")
	}

	events, err := h.adherenceRepo.ListByPatient(ctx, query.PatientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load adherence history: %w", err)
	}

	sort.Slice(events, func(a, b int) bool {
		if events[a].Date() != events[b].Date() {
			return events[a].Date() > events[b].Date()
		}
		return events[a].TimeRecorded() > events[b].TimeRecorded()
	})

	views := make([]queries.AdherenceEventView, 0, len(events))
	for _, e := range events {
		views = append(views, queries.AdherenceEventView{
			EventID:        e.ID(),
			MedicationName: e.MedicationName(),
			PatientEmail:   e.PatientEmail(),
			Date:           e.Date(),
			TimeRecorded:   e.TimeRecorded(),
			Taken:          e.Taken(),
		})
	}

	return &queries.AdherenceHistoryResult{
		Events: views,
		Total:  len(views),
	}, nil
}
