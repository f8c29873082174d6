package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
)

// UserService is the identity and session manager: it registers and
// authenticates users, issues bearer tokens and resolves them back into
// principals with the role current at request time.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput carries self-service profile changes. Empty fields are
// left unchanged. Role is deliberately absent: it is not a self-service field.
type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

func validateRegister(in RegisterInput) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "is required"
	}
	if in.Password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the default role and returns it with a fresh
// token. The password is bcrypt-hashed before it touches the store; emails are
// lowercased so uniqueness is case-insensitive.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if verr := validateRegister(in); verr != nil {
		return nil, "", verr
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: hash,
		Role:     entity.RoleUser,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}
	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, token, nil
}

// Authenticate validates email/password. Unknown email and wrong password are
// indistinguishable to the caller: both fail ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// ResolvePrincipal verifies a bearer token and re-reads the user's current
// role from the store. The token carries no role claim, so a promotion or
// demotion is effective on the next request.
func (s *UserService) ResolvePrincipal(ctx context.Context, token string) (Principal, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return Principal{}, err
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Principal{}, helpers.ErrInvalidToken
		}
		return Principal{}, err
	}
	return Principal{ID: u.ID, Role: u.Role}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users; password hashes never serialize.
func (s *UserService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.Repo.List(ctx)
}

// UpdateProfile applies name/email/password changes and returns the updated
// user with a fresh token. An email change re-checks uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if strings.TrimSpace(in.Name) != "" {
		u.Name = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.Email) != "" {
		u.Email = normalizeEmail(in.Email)
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, "", err
		}
		u.Password = hash
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrDuplicateEmail
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
