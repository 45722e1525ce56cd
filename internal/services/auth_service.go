package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
	"github.com/anonto42/career-hub/backend/pkg/firebase"
)

// AuthService signs users up and in and issues local JWTs
type AuthService struct {
	users     repositories.UserRepository
	firebase  firebase.TokenVerifier
	jwtSecret []byte
	jwtTTL    time.Duration
}

// NewAuthService creates an AuthService. verifier may be nil, in which case
// Firebase login is unavailable.
func NewAuthService(users repositories.UserRepository, verifier firebase.TokenVerifier, jwtSecret string, jwtTTL time.Duration) *AuthService {
	if jwtTTL <= 0 {
		jwtTTL = 72 * time.Hour
	}
	return &AuthService{
		users:     users,
		firebase:  verifier,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

// AuthResult is returned by every successful login
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserCompact `json:"user"`
}

// Signup registers a local user with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, req models.CreateLocalUserRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("user with this email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to look up user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("user with this email already registered")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}
	return s.issue(user)
}

func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("invalid email or password")
		}
		return nil, apperrors.Internal("failed to look up user", err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperrors.Unauthenticated("invalid email or password")
	}
	return s.issue(user)
}

// FirebaseLogin verifies a Firebase ID token and exchanges it for a local
// JWT. The Firebase account is linked by uid first, then by email, and a
// new user is created when neither matches.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.firebase == nil {
		return nil, apperrors.Invalid("firebase login is not enabled")
	}
	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid firebase id token")
	}

	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	uid := token.UID

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		if email == "" {
			return nil, apperrors.Invalid("firebase account has no email")
		}
		user, err = s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, apperrors.Internal("failed to link firebase account", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			first, last := splitName(name)
			user = &models.User{
				FirstName:         first,
				LastName:          last,
				Email:             email,
				ProfilePictureURL: picture,
				FirebaseUID:       &uid,
			}
			if err := s.users.CreateUser(ctx, user); err != nil {
				return nil, apperrors.Internal("failed to create user", err)
			}
		default:
			return nil, apperrors.Internal("failed to look up user", err)
		}
	default:
		return nil, apperrors.Internal("failed to look up user", err)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user.ToCompact()}, nil
}

// GenerateToken signs an HS256 token carrying the user's id and email.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "User", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
