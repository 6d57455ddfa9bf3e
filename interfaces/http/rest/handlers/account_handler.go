package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	cmdbus "medremind-backend/application/commands/bus"
	cmdhandlers "medremind-backend/application/commands/handlers"
	"medremind-backend/application/ports"
	"medremind-backend/pkg/auth"
	"medremind-backend/pkg/utils"
)

// AccountHandler handles account-related HTTP requests. Caregiver grants
// dispatch through the command bus; registration keeps its concrete
// handler because the response needs the created account back.
type AccountHandler struct {
	registerHandler *cmdhandlers.RegisterAccountHandler
	commandBus      *cmdbus.CommandBus
	accountRepo     ports.AccountRepository
	tokenGenerator  *auth.JWTGenerator
	logger          *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	registerHandler *cmdhandlers.RegisterAccountHandler,
	commandBus *cmdbus.CommandBus,
	accountRepo ports.AccountRepository,
	tokenGenerator *auth.JWTGenerator,
	logger *zap.Logger,
) *AccountHandler {
	return &AccountHandler{
		registerHandler: registerHandler,
		commandBus:      commandBus,
		accountRepo:     accountRepo,
		tokenGenerator:  tokenGenerator,
		logger:          logger,
	}
}

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=patient caregiver"`
}

// RegisterResponse represents the response for account registration
type RegisterResponse struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

// Register handles POST /accounts
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.RegisterAccountCommand{
		Email: req.Email,
		Role:  req.Role,
	}

	account, err := h.registerHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("Failed to register account", zap.Error(err))
		respondAppError(w, err, http.StatusBadRequest)
		return
	}

	resp := RegisterResponse{
		Email:   account.Email(),
		Role:    string(account.Role()),
		Message: "Account registered",
	}

	// Outside API Gateway the service issues its own tokens
	if h.tokenGenerator != nil {
		token, err := h.tokenGenerator.GenerateToken(account.Email(), string(account.Role()))
		if err != nil {
			h.logger.Warn("Failed to issue token", zap.Error(err))
		} else {
			resp.Token = token
		}
	}

	respondJSON(w, http.StatusCreated, resp)
}

// ProfileResponse represents the requester's own profile
type ProfileResponse struct {
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	Caregivers []string `json:"caregivers"`
	CreatedAt  string   `json:"created_at"`
}

// GetProfile handles GET /accounts/me
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := h.accountRepo.GetByEmail(r.Context(), userCtx.Email)
	if err != nil {
		respondAppError(w, err, http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		Email:      account.Email(),
		Role:       string(account.Role()),
		Caregivers: account.Caregivers(),
		CreatedAt:  account.CreatedAt().Format(time.RFC3339),
	})
}

// AddCaregiverRequest represents the request body for granting a caregiver
type AddCaregiverRequest struct {
	CaregiverEmail string `json:"caregiver_email" validate:"required,email"`
}

// AddCaregiver handles POST /caregivers
func (h *AccountHandler) AddCaregiver(w http.ResponseWriter, r *http.Request) {
	var req AddCaregiverRequest
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

	cmd := commands.AddCaregiverCommand{
		PatientEmail:   userCtx.Email,
		CaregiverEmail: req.CaregiverEmail,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Failed to add caregiver", zap.Error(err))
		respondAppError(w, err, http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Caregiver added"})
}
