package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/ThanhPhat1604/Assignment3SDN/pkg/google"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	LoginWithGoogle(ctx context.Context, req *models.GoogleLoginRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo          repository.UserRepository
	rateLimitRepo repository.RateLimitRepository
	googleClient  google.Client
	jwtKey        []byte
	jwtExpiry     time.Duration
}

func NewUserService(repo repository.UserRepository, rateLimitRepo repository.RateLimitRepository, googleClient google.Client, jwtKey []byte, jwtExpiryHours int) UserService {
	return &userService{
		repo:          repo,
		rateLimitRepo: rateLimitRepo,
		googleClient:  googleClient,
		jwtKey:        jwtKey,
		jwtExpiry:     time.Duration(jwtExpiryHours) * time.Hour,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {

	existingUser, _ := s.repo.GetUserByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, appErrors.BadRequestError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return s.issueToken(user)
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {

	allowed, _, retryAfter, err := s.rateLimitRepo.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
			WithDetail(fmt.Sprintf("Retry after %d seconds", retryAfter))
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		// same answer whether the account is missing or the password is wrong
		return nil, appErrors.BadRequestError("Invalid credentials")
	}

	return s.issueToken(user)
}

// LoginWithGoogle exchanges a Google OAuth access token for a session.
// First-time callers get an account created from their Google profile;
// returning callers get their name and avatar refreshed.
func (s *userService) LoginWithGoogle(ctx context.Context, req *models.GoogleLoginRequest) (*models.AuthResponse, error) {

	info, err := s.googleClient.FetchUserInfo(ctx, req.AccessToken)
	if err != nil {
		return nil, appErrors.UnauthorizedError("Invalid Google access token").WithError(err)
	}

	user, err := s.repo.GetUserByEmail(ctx, info.Email)

	switch {
	case err == nil:
		user.Name = info.Name
		user.Image = info.Picture

		if err := s.repo.UpdateUser(ctx, user); err != nil {
			return nil, appErrors.DatabaseError("Failed to update user").WithError(err)
		}
	case errors.Is(err, sql.ErrNoRows):
		user = &models.User{
			ID:    uuid.New(),
			Name:  info.Name,
			Email: info.Email,
			Role:  models.RoleUser,
			Image: info.Picture,
		}

		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
		}
	default:
		return nil, appErrors.DatabaseError("Failed to look up user").WithError(err)
	}

	return s.issueToken(user)
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve user").WithError(err)
	}

	return user, nil
}

func (s *userService) issueToken(user *models.User) (*models.AuthResponse, error) {

	claims := &models.Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.AuthResponse{
		Token:     tokenString,
		ExpiresIn: int(time.Until(claims.ExpiresAt.Time).Seconds()),
		User:      user,
	}, nil
}
