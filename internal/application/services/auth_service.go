package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/observability"
	"github.com/osarobo/threadcart/backend/pkg/config"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// AccessClaims are the JWT claims carried by an access token. The token
// ID (jti) doubles as the session key, so revoking the session revokes
// the token.
type AccessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterInput holds the fields accepted at registration
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Password  string `json:"password"`
	Password2 string `json:"password_2"`
}

// ProfileUpdateInput holds the updatable profile fields
type ProfileUpdateInput struct {
	Email          *string `json:"email"`
	Country        *string `json:"country"`
	ProfilePicture *string `json:"profile_picture"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles registration, login, and session lifecycle
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	cfg      config.AuthConfig
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if input.Username == "" {
		return nil, apperrors.NewValidationError("username is required")
	}
	if len(input.Username) > 100 {
		return nil, apperrors.NewValidationError("username must be at most 100 characters")
	}
	if input.Email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil || len(input.Email) > 200 {
		return nil, apperrors.NewValidationError("email is not a valid address")
	}
	if input.Password == "" {
		return nil, apperrors.NewValidationError("password is required")
	}
	if input.Password != input.Password2 {
		return nil, apperrors.NewValidationError("passwords do not match")
	}

	// Check both unique fields up front for a precise conflict message;
	// the unique constraints still backstop concurrent registrations.
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflictError("username already exists")
	} else if !isNotFound(err) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflictError("email already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Country:      input.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed access token backed by
// a session record. The failure message never says whether the username
// or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL())
	tokenID := uuid.New().String()

	claims := AccessClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign token", err)
	}

	session := &entities.Session{
		ID:        tokenID,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResult{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates a signed token and checks that its session is
// still live. It returns the identity to attach to the request context.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*entities.Identity, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	if _, err := s.sessions.Get(ctx, claims.ID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("invalid or expired token")
		}
		return nil, err
	}

	return &entities.Identity{UserID: claims.Subject, Username: claims.Username}, nil
}

// Logout revokes the session behind the presented token. Logging out an
// already-revoked session is not an error.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return apperrors.NewUnauthorizedError("invalid or expired token")
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// Profile returns the account of the authenticated user
func (s *AuthService) Profile(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the provided profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if _, err := mail.ParseAddress(email); err != nil || len(email) > 200 {
			return nil, apperrors.NewValidationError("email is not a valid address")
		}
		user.Email = email
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and revokes every session they hold.
// Owned products, orders, reviews, and ratings go with the user via the
// schema's cascade rules.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		// The user row is already gone, so stale sessions can no longer
		// reach any data; log and move on.
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to purge sessions for deleted account")
	}

	return nil
}

func (s *AuthService) bcryptCost() int {
	if s.cfg.BcryptCost <= 0 {
		return bcrypt.DefaultCost
	}
	return s.cfg.BcryptCost
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.cfg.TokenTTL <= 0 {
		return 24 * time.Hour
	}
	return s.cfg.TokenTTL
}

// isNotFound reports whether err is a not-found application error
func isNotFound(err error) bool {
	appErr, ok := err.(*apperrors.AppError)
	return ok && appErr.Type == apperrors.ErrorTypeNotFound
}
