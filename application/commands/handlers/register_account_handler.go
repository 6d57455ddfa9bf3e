package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medremind-backend/application/commands"
	"medremind-backend/application/ports"
	"medremind-backend/domain/core/entities"
)

// RegisterAccountHandler handles account registration
type RegisterAccountHandler struct {
	accountRepo ports.AccountRepository
	logger      *zap.Logger
}

// NewRegisterAccountHandler creates a new register account handler
func NewRegisterAccountHandler(
	accountRepo ports.AccountRepository,
	logger *zap.Logger,
) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Handle executes the register account command and returns the new account.
func (h *RegisterAccountHandler) Handle(ctx context.Context, cmd commands.RegisterAccountCommand) (*entities.Account, error) {
	// Validate command
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	role, err := entities.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	account, err := entities.NewAccount(cmd.Email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Registration is publicly reachable, so an existing email must fail
	// with a conflict rather than be silently replaced
	if err := h.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	h.logger.Info("Account registered",
		zap.String("email", cmd.Email),
		zap.String("role", cmd.Role),
	)

	return account, nil
}
