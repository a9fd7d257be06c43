package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/models"
	"github.com/Tushar365/reportappmedghor/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "medghor-auth"
	tokenAudience     = "medghor-api"
	minPasswordLength = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID   string        `json:"user_id"`
	Username string        `json:"username"`
	Roles    []models.Role `json:"roles"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type ProfileInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AuthService handles accounts and JWT issuance
type AuthService interface {
	Register(ctx context.Context, in RegisterInput, roles ...models.Role) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.TokenResponse, *models.User, error)
	GenerateToken(user *models.User) (*models.TokenResponse, error)
	ValidateToken(token string) (*TokenClaims, error)
	Authenticate(ctx context.Context, token string) (models.Principal, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates an active account. New accounts are viewers unless
// roles are given.
func (s *authService) Register(ctx context.Context, in RegisterInput, roles ...models.Role) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Username == "":
		return nil, &ValidationError{Field: "username", Message: "is required"}
	case !strings.Contains(in.Email, "@"):
		return nil, invalidEmail()
	case len(in.Password) < minPasswordLength:
		return nil, shortPassword("password")
	}

	if len(roles) == 0 {
		roles = []models.Role{models.RoleViewer}
	}
	for _, r := range roles {
		if !r.Valid() {
			return nil, &ValidationError{Field: "roles", Message: fmt.Sprintf("unknown role %q", r)}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Roles:        roles,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks the password and issues a token. Failed attempts are
// counted; the count never blocks a later login.
func (s *authService) Login(ctx context.Context, username, password string) (*models.TokenResponse, *models.User, error) {
	logger := zerolog.Ctx(ctx)

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if recErr := s.userRepo.RecordFailedLogin(ctx, user.ID); recErr != nil {
			logger.Warn().Err(recErr).Str("user_id", user.ID.String()).Msg("failed to record failed login")
		}
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.userRepo.RecordLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

func (s *authService) GenerateToken(user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		UserID:      user.ID.String(),
		Roles:       user.Roles,
		TokenID:     tokenID,
		IssuedAt:    now,
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate validates token and reloads the account, so a disabled user
// or a role change takes effect on the next request.
func (s *authService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return models.Principal{}, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return models.Principal{}, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Principal{}, ErrInvalidToken
	}
	if err != nil {
		return models.Principal{}, err
	}
	if !user.IsActive {
		return models.Principal{}, ErrAccountDisabled
	}
	return models.NewPrincipal(user.ID.String(), user.Username, user.Roles), nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error {
	if len(roles) == 0 {
		return &ValidationError{Field: "roles", Message: "at least one role is required"}
	}
	for _, r := range roles {
		if !r.Valid() {
			return &ValidationError{Field: "roles", Message: fmt.Sprintf("unknown role %q", r)}
		}
	}
	return s.userRepo.SetRoles(ctx, id, roles)
}

// ChangePassword replaces the password after checking the current one.
func (s *authService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return shortPassword("new_password")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return &ValidationError{Field: "current_password", Message: "is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("user_id", id.String()).Msg("password changed")
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		return nil, invalidEmail()
	}
	if err := s.userRepo.UpdateProfile(ctx, id, email, strings.TrimSpace(in.FullName)); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

func invalidEmail() error {
	return &ValidationError{Field: "email", Message: "must be a valid email address"}
}

func shortPassword(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
}
