package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/pkg/jwtutil"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrSessionInvalid    = errors.New("session invalid or expired")
)

// AuthService is the session gate. Passwords are stored as bcrypt hashes and
// compared with constant-time verification; sessions live in the database and
// expire after a fixed window, so logout and deactivation revoke access
// immediately.
type AuthService struct {
	clientRepo  *repository.ClientRepository
	sessionRepo *repository.SessionRepository
	secret      string
	sessionTTL  time.Duration
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token   string
	Session *model.Session
}

func NewAuthService(
	clientRepo *repository.ClientRepository,
	sessionRepo *repository.SessionRepository,
	secret string,
	sessionTTL time.Duration,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		secret:      secret,
		sessionTTL:  sessionTTL,
	}
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	client, err := s.clientRepo.GetActiveByEmail(email)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	session := &model.Session{
		Token:       uuid.NewString(),
		ClientID:    client.ID,
		Email:       client.Email,
		Name:        client.Name,
		Role:        client.Role,
		ClientGroup: client.ClientGroup,
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.secret, s.sessionTTL, session.Token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Session: session}, nil
}

// Authenticate resolves a bearer token to its live session row. Expired rows
// are removed on sight.
func (s *AuthService) Authenticate(bearerToken string) (*model.Session, error) {
	claims, err := jwtutil.ParseToken(s.secret, bearerToken)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetByToken(claims.SessionToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionInvalid
	}
	if session.Expired(time.Now()) {
		_ = s.sessionRepo.DeleteByToken(session.Token)
		return nil, ErrSessionInvalid
	}
	return session, nil
}

// Logout deletes the session row. Idempotent: a second logout with the same
// token succeeds without touching anything.
func (s *AuthService) Logout(bearerToken string) error {
	claims, err := jwtutil.ParseToken(s.secret, bearerToken)
	if err != nil {
		return ErrSessionInvalid
	}
	if err := s.sessionRepo.DeleteByToken(claims.SessionToken); err != nil {
		return fmt.Errorf("invalidate session failed: %w", err)
	}
	return nil
}

// HashPassword is used by the admin user endpoints when creating or updating
// credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}
