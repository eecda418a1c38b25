package authController

import (
	"context"
	"errors"
	"time"

	"portal/internal/apperrors"
	"portal/internal/logger"
	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/repositories"
	"portal/internal/services"
	"portal/internal/validation"
)

type AuthController struct {
	adminRepo repositories.AdminRepository
	tokens    *services.TokenService
	validator *validation.Validator
	metrics   *metrics.Metrics
	log       logger.Logger
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     *Admin    `json:"admin"`
}

func New(
	adminRepo repositories.AdminRepository,
	tokens *services.TokenService,
	validator *validation.Validator,
	metrics *metrics.Metrics,
) *AuthController {
	return &AuthController{
		adminRepo: adminRepo,
		tokens:    tokens,
		validator: validator,
		metrics:   metrics,
		log:       logger.New("AuthController"),
	}
}

// Login never reveals whether the username or the password was wrong.
func (ac *AuthController) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	log := ac.log.Function("Login")

	if fieldErrs := ac.validator.Login(req); len(fieldErrs) > 0 {
		return nil, apperrors.Validation(fieldErrs)
	}

	admin, err := ac.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			services.BurnPasswordCheck(req.Password)
			ac.metrics.IncrementLogin(false)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := services.VerifyPassword(req.Password, admin.PasswordHash); err != nil {
		ac.metrics.IncrementLogin(false)
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, log.Err("failed to verify password", err, "username", req.Username)
	}

	token, expiresAt, err := ac.tokens.Generate(admin)
	if err != nil {
		return nil, log.Err("failed to sign token", err, "username", req.Username)
	}

	ac.metrics.IncrementLogin(true)
	log.Info("Admin logged in", "adminID", admin.ID)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (ac *AuthController) Verify(token string) (*services.Claims, error) {
	return ac.tokens.Verify(token)
}

func (ac *AuthController) Me(ctx context.Context, adminID string) (*Admin, error) {
	admin, err := ac.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return admin, nil
}

func (ac *AuthController) UpdatePassword(ctx context.Context, adminID string, req PasswordUpdateRequest) error {
	log := ac.log.Function("UpdatePassword")

	if fieldErrs := ac.validator.PasswordUpdate(req); len(fieldErrs) > 0 {
		return apperrors.Validation(fieldErrs)
	}

	hash, err := services.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := ac.adminRepo.UpdatePasswordHash(ctx, adminID, hash); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}

	log.Info("Admin password updated", "adminID", adminID)
	return nil
}

// Register creates another administrator. A taken username or email is a
// conflict.
func (ac *AuthController) Register(ctx context.Context, req RegisterRequest) (*Admin, error) {
	log := ac.log.Function("Register")

	req, fieldErrs := ac.validator.Register(req)
	if len(fieldErrs) > 0 {
		return nil, apperrors.Validation(fieldErrs)
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	admin := &Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	if err := ac.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.Conflict("Username or email already exists")
		}
		return nil, err
	}

	log.Info("Admin registered", "adminID", admin.ID, "username", admin.Username)
	return admin, nil
}

// EnsureDefaultAdmin creates the bootstrap account when no admin with that
// username exists. An existing account is left as it is.
func (ac *AuthController) EnsureDefaultAdmin(
	ctx context.Context,
	username, email, password string,
) (*Admin, bool, error) {
	log := ac.log.Function("EnsureDefaultAdmin")

	existing, err := ac.adminRepo.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, false, log.Err("failed to hash default admin password", err)
	}

	admin := &Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
	}
	if err := ac.adminRepo.Create(ctx, admin); err != nil {
		return nil, false, err
	}

	log.Info("Default admin created", "username", username)
	return admin, true, nil
}
