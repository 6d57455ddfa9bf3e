package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	cmdhandlers "medremind-backend/application/commands/handlers"
	"medremind-backend/application/queries"
	querybus "medremind-backend/application/queries/bus"
	"medremind-backend/pkg/auth"
	"medremind-backend/pkg/common"
	"medremind-backend/pkg/utils"
)

// AdherenceHandler handles adherence-related HTTP requests
type AdherenceHandler struct {
	recordHandler *cmdhandlers.RecordAdherenceHandler
	queryBus      *querybus.QueryBus
	logger        *zap.Logger
}

// NewAdherenceHandler creates a new adherence handler
func NewAdherenceHandler(
	recordHandler *cmdhandlers.RecordAdherenceHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *AdherenceHandler {
	return &AdherenceHandler{
		recordHandler: recordHandler,
		queryBus:      queryBus,
		logger:        logger,
	}
}

// RecordResponseRequest represents a notification response or in-app mark
type RecordResponseRequest struct {
	MedicationName string `json:"medication_name" validate:"required,min=1,max=200"`
	NotificationID string `json:"notification_id"`
	Response       string `json:"response" validate:"required,oneof=taken skipped"`
}

// RecordResponseResponse acknowledges a recorded dose resolution
type RecordResponseResponse struct {
	EventID      string `json:"event_id"`
	Date         string `json:"date"`
	TimeRecorded string `json:"time_recorded"`
	Taken        bool   `json:"taken"`
}

// RecordResponse handles POST /adherence/responses
func (h *AdherenceHandler) RecordResponse(w http.ResponseWriter, r *http.Request) {
	var req RecordResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.RecordAdherenceCommand{
		PatientEmail:   userCtx.Email,
		MedicationName: req.MedicationName,
		NotificationID: req.NotificationID,
		Response:       commands.ResponseKind(req.Response),
	}

	event, err := h.recordHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("Failed to record adherence", zap.Error(err))
		respondAppError(w, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, RecordResponseResponse{
		EventID:      event.ID(),
		Date:         event.Date(),
		TimeRecorded: event.TimeRecorded(),
		Taken:        event.Taken(),
	})
}

// History handles GET /adherence. The optional "patient" query parameter
// lets caregivers read a ward's history; it defaults to the requester.
func (h *AdherenceHandler) History(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patient := r.URL.Query().Get("patient")
	if patient == "" {
		patient = userCtx.Email
	}

	query := queries.AdherenceHistoryQuery{
		PatientEmail:   patient,
		RequesterEmail: userCtx.Email,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to load adherence history", zap.Error(err))
		respondAppError(w, err, http.StatusInternalServerError)
		return
	}

	history, ok := result.(*queries.AdherenceHistoryResult)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Unexpected query result")
		return
	}

	params := common.ExtractPaginationParams(r)
	start, end := params.Bounds(len(history.Events))

	respondJSON(w, http.StatusOK, HistoryResponse{
		Events:     history.Events[start:end],
		Pagination: common.BuildPaginationMeta(params, history.Total),
	})
}

// HistoryResponse is one page of a patient's adherence log
type HistoryResponse struct {
	Events     []queries.AdherenceEventView `json:"events"`
	Pagination common.PaginationInfo        `json:"pagination"`
}
