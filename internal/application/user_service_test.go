package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
)

// MockUserRepo is a mock implementation of the UserRepository interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func newTestUserService(r *MockUserRepo) *UserService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(r, jwt, nil)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*entity.User)
				u.ID = "user1"
			}).Return(nil).Once()

		u, token, err := svc.Register(ctx, RegisterInput{
			Name:     "Alice",
			Email:    "Alice@X.com",
			Password: "password123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "alice@x.com", u.Email)
		assert.Equal(t, entity.RoleUser, u.Role)
		assert.NotEqual(t, "password123", u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
			Return(repo.ErrDuplicate).Once()

		u, token, err := svc.Register(ctx, RegisterInput{
			Name:     "Alice",
			Email:    "ALICE@x.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Nil(t, u)
		assert.Empty(t, token)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		_, _, err := svc.Register(ctx, RegisterInput{Email: "a@x.com"})

		ve, ok := IsValidation(err)
		assert.True(t, ok)
		assert.Contains(t, ve.Fields, "name")
		assert.Contains(t, ve.Fields, "password")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	user := &entity.User{ID: "user1", Email: "alice@x.com", Password: string(hash), Role: entity.RoleUser}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(user, nil).Once()

		u, err := svc.Authenticate(ctx, "Alice@X.com", "correcthorse")
		assert.NoError(t, err)
		assert.Equal(t, "user1", u.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "ghost@x.com").Return(nil, repo.ErrNotFound).Once()

		_, err := svc.Authenticate(ctx, "ghost@x.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(user, nil).Once()

		_, err := svc.Authenticate(ctx, "alice@x.com", "wrongpassword")
		// unknown email and wrong password must be indistinguishable
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResolvePrincipal(t *testing.T) {
	ctx := context.Background()

	t.Run("RoleReadFreshFromStore", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		token, _, err := svc.JWT.GenerateToken("user1")
		assert.NoError(t, err)

		// promoted after the token was issued
		mockRepo.On("GetByID", ctx, "user1").
			Return(&entity.User{ID: "user1", Role: entity.RoleAdmin}, nil).Once()

		p, err := svc.ResolvePrincipal(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, Principal{ID: "user1", Role: entity.RoleAdmin}, p)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		token, _, _ := svc.JWT.GenerateToken("gone")
		mockRepo.On("GetByID", ctx, "gone").Return(nil, repo.ErrNotFound).Once()

		_, err := svc.ResolvePrincipal(ctx, token)
		assert.ErrorIs(t, err, helpers.ErrInvalidToken)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := NewUserService(mockRepo, helpers.NewJWTManager("test-secret", -time.Minute), nil)

		token, _, _ := svc.JWT.GenerateToken("user1")
		_, err := svc.ResolvePrincipal(ctx, token)
		assert.ErrorIs(t, err, helpers.ErrExpiredToken)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		existing := &entity.User{ID: "user1", Name: "Alice", Email: "alice@x.com", Password: "oldhash", Role: entity.RoleUser}
		mockRepo.On("GetByID", ctx, "user1").Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(nil).Once()

		u, token, err := svc.UpdateProfile(ctx, "user1", UpdateProfileInput{
			Name:     "Alice B",
			Password: "newpassword",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "Alice B", u.Name)
		assert.Equal(t, "alice@x.com", u.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpassword")))
		assert.Equal(t, entity.RoleUser, u.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmailConflict", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		existing := &entity.User{ID: "user1", Email: "alice@x.com"}
		mockRepo.On("GetByID", ctx, "user1").Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*entity.User")).Return(repo.ErrDuplicate).Once()

		_, _, err := svc.UpdateProfile(ctx, "user1", UpdateProfileInput{Email: "Bob@x.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := newTestUserService(mockRepo)

		mockRepo.On("GetByID", ctx, "ghost").Return(nil, repo.ErrNotFound).Once()

		_, _, err := svc.UpdateProfile(ctx, "ghost", UpdateProfileInput{Name: "X"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
