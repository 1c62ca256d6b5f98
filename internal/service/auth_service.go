package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"contactly-be/internal/entities"
	"contactly-be/internal/imagehost"
	"contactly-be/internal/jwt"
	"contactly-be/internal/mailer"
	"contactly-be/internal/models"
	"contactly-be/internal/repository"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailNotConfirmed rejects logins before the confirmation link was used
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

// AuthService defines the interface for authentication and user business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error)
	ConfirmEmail(ctx context.Context, token string) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Me(ctx context.Context, userID string) (*entities.User, error)
	UpdateAvatar(ctx context.Context, email, filename string, data []byte) (*entities.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	mail       mailer.Mailer
	images     imagehost.Uploader
	baseURL    string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	mail mailer.Mailer,
	images imagehost.Uploader,
	baseURL string,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mail:       mail,
		images:     images,
		baseURL:    baseURL,
	}
}

// Register creates a new unconfirmed user account and emails the
// confirmation link in the background
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Username, req.Email, string(hashedPassword))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fmt.Errorf("%w: account with this email or username", repository.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendConfirmation(user.Email)

	return &models.RegisterResponse{
		Message: "User registered successfully. Check your email for a confirmation link.",
		User:    userResponse(user),
	}, nil
}

// sendConfirmation mails the verification link without blocking the request
func (s *authService) sendConfirmation(email string) {
	token, err := s.jwtService.GenerateVerificationToken(email)
	if err != nil {
		log.Printf("Warning: failed to generate verification token for %s: %v", email, err)
		return
	}

	link := fmt.Sprintf("%s/api/v1/auth/confirm/%s", s.baseURL, token)
	go func() {
		if err := s.mail.SendVerificationEmail(email, link); err != nil {
			log.Printf("Warning: failed to send verification email to %s: %v", email, err)
		}
	}()
}

// ConfirmEmail marks the token's email as confirmed. Confirming twice is a no-op.
func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ParseToken(token, jwt.PurposeVerification)
	if err != nil {
		return jwt.ErrInvalidToken
	}

	return s.userRepo.ConfirmEmail(ctx, claims.Email)
}

// Login authenticates a confirmed user and returns a fresh token pair
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}

	return s.issueTokens(ctx, user)
}

// Refresh validates the presented refresh token against the stored one and
// rotates the pair. A stale token revokes the stored one.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	claims, err := s.jwtService.ParseToken(refreshToken, jwt.PurposeRefresh)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			log.Printf("Warning: failed to revoke refresh token for %s: %v", user.ID, err)
		}
		return nil, jwt.ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) issueTokens(ctx context.Context, user *entities.User) (*models.TokenResponse, error) {
	accessToken, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Me returns the authenticated user's record
func (s *authService) Me(ctx context.Context, userID string) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// UpdateAvatar pushes the image to the external host and stores the
// returned URL on the user row
func (s *authService) UpdateAvatar(ctx context.Context, email, filename string, data []byte) (*entities.User, error) {
	url, err := s.images.Upload(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return s.userRepo.UpdateAvatar(ctx, email, url)
}

func userResponse(user *entities.User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Confirmed: user.Confirmed,
		CreatedAt: user.CreatedAt,
	}
}
