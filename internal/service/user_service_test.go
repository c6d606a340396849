package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"thyroscan/internal/auth"
	apperrors "thyroscan/internal/errors"
	"thyroscan/internal/model"
	"thyroscan/internal/storage"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newUserService(userRepo *MockUserRepository, predictionRepo *MockPredictionRepository, store *storage.Store) UserService {
	return NewUserService(userRepo, predictionRepo, auth.NewJWTService("test-secret"), store, nil)
}

func TestUserService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		input         SignupInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "successful signup",
			input: SignupInput{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
				Password:  "password123",
				Gender:    "female",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate email",
			input: SignupInput{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "taken@example.com",
				Password:  "password123",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name: "duplicate email raced past the pre-check",
			input: SignupInput{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "taken@example.com",
				Password:  "password123",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name: "missing required fields",
			input: SignupInput{
				FirstName: "Jane",
				Email:     "jane@example.com",
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newUserService(mockRepo, new(MockPredictionRepository), newTestStore(t))
			user, token, err := svc.Signup(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.input.Email, user.Email)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_SignupStoresProfileImage(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	store := newTestStore(t)
	svc := newUserService(mockRepo, new(MockPredictionRepository), store)

	user, _, err := svc.Signup(context.Background(), SignupInput{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Password:     "password123",
		ProfileImage: makeFileHeader(t, "me.png", pngBytes(t)),
	})
	require.NoError(t, err)

	require.NotEmpty(t, user.ProfileImage)
	_, err = os.Stat(store.Abs(user.ProfileImage))
	assert.NoError(t, err)
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	require.NoError(t, err)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "jane@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{
					Email:        "jane@example.com",
					PasswordHash: string(hash),
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "wrong password",
			email:    "jane@example.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{
					Email:        "jane@example.com",
					PasswordHash: string(hash),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newUserService(mockRepo, new(MockPredictionRepository), newTestStore(t))
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	stored := &model.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Gender:    "female",
		Phone:     "123",
	}
	mockRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(stored, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := newUserService(mockRepo, new(MockPredictionRepository), newTestStore(t))
	user, err := svc.UpdateProfile(context.Background(), "jane@example.com", ProfileUpdate{
		FirstName: "Janet",
		Phone:     "456",
	})
	require.NoError(t, err)

	// Supplied fields overwrite, omitted fields keep their stored values.
	assert.Equal(t, "Janet", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, "female", user.Gender)
	assert.Equal(t, "456", user.Phone)
}

func TestUserService_UpdateProfile_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "gone@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := newUserService(mockRepo, new(MockPredictionRepository), newTestStore(t))
	_, err := svc.UpdateProfile(context.Background(), "gone@example.com", ProfileUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_DeleteAccount(t *testing.T) {
	store := newTestStore(t)

	// Stage a profile image so deletion can be observed.
	imagePath, err := store.Save(makeFileHeader(t, "me.png", pngBytes(t)), storage.ProfileDir)
	require.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockPredictionRepo := new(MockPredictionRepository)
	mockUserRepo.On("FindByEmail", mock.Anything, "jane@example.com").Return(&model.User{
		Email:        "jane@example.com",
		ProfileImage: imagePath,
	}, nil)
	mockPredictionRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(nil)
	mockUserRepo.On("DeleteByEmail", mock.Anything, "jane@example.com").Return(nil)

	svc := newUserService(mockUserRepo, mockPredictionRepo, store)
	require.NoError(t, svc.DeleteAccount(context.Background(), "jane@example.com"))

	_, err = os.Stat(store.Abs(imagePath))
	assert.True(t, os.IsNotExist(err))
	mockUserRepo.AssertExpectations(t)
	mockPredictionRepo.AssertExpectations(t)
}

func TestUserService_DeleteAccount_NotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", mock.Anything, "gone@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := newUserService(mockUserRepo, new(MockPredictionRepository), newTestStore(t))
	err := svc.DeleteAccount(context.Background(), "gone@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
