package fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/usecase"
)

type RegisterUseCase interface {
	Execute(ctx context.Context, in usecase.RegisterInput) error
}

type LoginUseCase interface {
	Execute(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
}

type RefreshUseCase interface {
	Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

type AuthHandler struct {
	registerUC RegisterUseCase
	loginUC    LoginUseCase
	refreshUC  RefreshUseCase
	log        zerolog.Logger
}

func NewAuthHandler(registerUC RegisterUseCase, loginUC LoginUseCase, refreshUC RefreshUseCase, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		refreshUC:  refreshUC,
		log:        log,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account with a bcrypt-hashed password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
		})
	}

	err := h.registerUC.Execute(c.UserContext(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRegistration):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
			})
		case errors.Is(err, usecase.ErrEmailTaken):
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Message: "Email address is already registered",
			})
		default:
			h.log.Error().Err(err).Msg("register failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Message: "Internal server error",
			})
		}
	}

	return c.Status(http.StatusCreated).JSON(MessageResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Verifies credentials and returns an access/refresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email and password are required",
		})
	}

	res, err := h.loginUC.Execute(c.UserContext(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Invalid credentials",
			})
		case errors.Is(err, usecase.ErrAccountInactive):
			return c.Status(http.StatusForbidden).JSON(ErrorResponse{
				Message: "Account is not active",
			})
		default:
			h.log.Error().Err(err).Msg("login failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Message: "Internal server error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(LoginResponse{
		Success:      true,
		Token:        res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User: UserResponse{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
		},
	})
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Description Exchanges a valid refresh token for a new token pair; the presented token is invalidated
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh payload"
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Invalid refresh token",
		})
	}

	pair, err := h.refreshUC.Execute(c.UserContext(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRefreshToken):
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Invalid refresh token",
			})
		default:
			h.log.Error().Err(err).Msg("refresh failed")
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Message: "Internal server error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(RefreshResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
