package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skyharbor/fleetops-api/internal/models"
	appErrors "github.com/skyharbor/fleetops-api/pkg/errors"
)

type accountAdminRepository interface {
	FindAccount(ctx context.Context, role models.Role, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
}

type crewDirectory interface {
	ListCrewMembers(ctx context.Context, isPilot *bool) ([]models.CrewMember, error)
	FindCrewMember(ctx context.Context, email string) (*models.CrewMember, error)
	SetCrewPilotFlag(ctx context.Context, email string, isPilot bool) error
}

// CreateAccountRequest provisions a new account in a role table.
type CreateAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	IsPilot  bool   `json:"is_pilot"`
}

// SetCrewRoleRequest flips a crew member's pilot qualification.
type SetCrewRoleRequest struct {
	IsPilot bool `json:"is_pilot"`
}

// AccountService owns administrative account provisioning and the crew
// directory.
type AccountService struct {
	accounts  accountAdminRepository
	crew      crewDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAccountService constructs AccountService.
func NewAccountService(accounts accountAdminRepository, crew crewDirectory, validate *validator.Validate, logger *zap.Logger) *AccountService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{accounts: accounts, crew: crew, validator: validate, logger: logger}
}

// CreateAccount provisions an account in the requested role's table. The
// password is stored as a bcrypt hash.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if _, err := s.accounts.FindAccount(ctx, role, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "email already registered for this role")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.Account{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		IsPilot:      req.IsPilot,
		Role:         role,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("account provisioned",
		zap.String("email", account.Email),
		zap.String("role", string(account.Role)))
	account.PasswordHash = ""
	return account, nil
}

// ListCrew returns the crew directory, optionally filtered by pilot flag.
func (s *AccountService) ListCrew(ctx context.Context, isPilot *bool) ([]models.CrewMember, error) {
	crew, err := s.crew.ListCrewMembers(ctx, isPilot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list crew members")
	}
	return crew, nil
}

// SetCrewRole changes a crew member's pilot qualification.
func (s *AccountService) SetCrewRole(ctx context.Context, email string, req SetCrewRoleRequest) (*models.CrewMember, error) {
	member, err := s.crew.FindCrewMember(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "crew member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load crew member")
	}
	if err := s.crew.SetCrewPilotFlag(ctx, email, req.IsPilot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update crew member")
	}
	member.IsPilot = req.IsPilot
	s.logger.Info("crew role updated", zap.String("email", email), zap.Bool("is_pilot", req.IsPilot))
	return member, nil
}
