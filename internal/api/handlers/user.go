package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/api/middleware"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	service "github.com/ThanhPhat1604/Assignment3SDN/internal/services"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new account
//	@Description	Creates an account with a bcrypt-hashed password and returns a signed session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	models.AuthResponse		"Account created"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or email already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/auth/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")

			return
		}

		resp, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("Registration failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("User registered", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusCreated, resp)
	}
}

// Login godoc
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and returns a signed session token. Logins are rate limited per email.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Login credentials"
//	@Success		200			{object}	models.AuthResponse		"Authenticated"
//	@Failure		400			{object}	response.ErrorResponse	"Invalid credentials"
//	@Failure		429			{object}	response.ErrorResponse	"Too many login attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/auth/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")

			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("User logged in", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}

// GoogleLogin godoc
//	@Summary		Log in with a Google access token
//	@Description	Exchanges a Google OAuth access token for a session, creating the account on first login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			token	body		models.GoogleLoginRequest	true	"Google access token"
//	@Success		200		{object}	models.AuthResponse			"Authenticated"
//	@Failure		401		{object}	response.ErrorResponse		"Invalid Google access token"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/auth/google [post]
func (h *UserHandler) GoogleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.GoogleLoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid google login input")

			return
		}

		resp, err := h.userService.LoginWithGoogle(r.Context(), &req)
		if err != nil {
			logger.Warn("Google login failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("User logged in via Google", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}

// Profile godoc
//	@Summary		Get the authenticated user's profile
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"Profile"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/users/profile [get]
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			logger.Warn("Unauthorized profile access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		user, err := h.userService.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to load profile", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
