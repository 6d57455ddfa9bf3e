package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"medremind-backend/application/commands"
	cmdbus "medremind-backend/application/commands/bus"
	cmdhandlers "medremind-backend/application/commands/handlers"
	"medremind-backend/application/queries"
	querybus "medremind-backend/application/queries/bus"
	"medremind-backend/pkg/auth"
	pkgerrors "medremind-backend/pkg/errors"
	"medremind-backend/pkg/utils"
)

// MedicationHandler handles medication-related HTTP requests. Writes go
// through the command bus; create keeps its concrete handler because the
// response needs the created entity back.
type MedicationHandler struct {
	createHandler *cmdhandlers.CreateMedicationHandler
	commandBus    *cmdbus.CommandBus
	queryBus      *querybus.QueryBus
	logger        *zap.Logger
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(
	createHandler *cmdhandlers.CreateMedicationHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *MedicationHandler {
	return &MedicationHandler{
		createHandler: createHandler,
		commandBus:    commandBus,
		queryBus:      queryBus,
		logger:        logger,
	}
}

// CreateMedicationRequest represents the request body for registering a medication
type CreateMedicationRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Dosage    string `json:"dosage" validate:"required,min=1,max=200"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	TimeOfDay string `json:"time_of_day" validate:"required"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// CreateMedicationResponse represents the response for registering a medication
type CreateMedicationResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// CreateMedication handles POST /medications
func (h *MedicationHandler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req CreateMedicationRequest
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

	cmd := commands.CreateMedicationCommand{
		PatientEmail: userCtx.Email,
		Name:         req.Name,
		Dosage:       req.Dosage,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		TimeOfDay:    req.TimeOfDay,
		Notes:        req.Notes,
	}

	med, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("Failed to create medication", zap.Error(err))
		respondAppError(w, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, CreateMedicationResponse{
		ID:        med.ID().String(),
		Message:   "Medication registered",
		CreatedAt: med.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListMedications handles GET /medications
func (h *MedicationHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.ListMedicationsQuery{RequesterEmail: userCtx.Email}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list medications", zap.Error(err))
		respondAppError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetMedication handles GET /medications/{medicationID}
func (h *MedicationHandler) GetMedication(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := queries.GetMedicationQuery{
		MedicationID:   chi.URLParam(r, "medicationID"),
		RequesterEmail: userCtx.Email,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondAppError(w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteMedication handles DELETE /medications/{medicationID}
func (h *MedicationHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.DeleteMedicationCommand{
		MedicationID:   chi.URLParam(r, "medicationID"),
		RequesterEmail: userCtx.Email,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to delete medication", zap.Error(err))
		respondAppError(w, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Medication deleted"})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondAppError maps application errors to HTTP status codes, falling
// back to the supplied default
func respondAppError(w http.ResponseWriter, err error, fallback int) {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		respondError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	respondError(w, fallback, err.Error())
}
