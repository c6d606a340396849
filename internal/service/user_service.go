package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"thyroscan/internal/auth"
	apperrors "thyroscan/internal/errors"
	"thyroscan/internal/model"
	"thyroscan/internal/repository"
	"thyroscan/internal/storage"
)

const bcryptCost = 10

// SignupInput is a signup request resolved at the HTTP boundary, whether it
// arrived as multipart form data or JSON.
type SignupInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Gender       string
	Phone        string
	ProfileImage *multipart.FileHeader // only present on multipart requests
}

// ProfileUpdate carries the fields of an update-profile request. Empty
// fields keep the stored value.
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	Gender       string
	Phone        string
	ProfileImage *multipart.FileHeader
}

// UserService handles the account lifecycle.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (user *model.User, token string, err error)
	Login(ctx context.Context, email, password string) (user *model.User, token string, err error)
	UpdateProfile(ctx context.Context, email string, in ProfileUpdate) (*model.User, error)
	DeleteAccount(ctx context.Context, email string) error
}

type userService struct {
	userRepo       repository.UserRepository
	predictionRepo repository.PredictionRepository
	jwtService     *auth.JWTService
	store          *storage.Store
	cache          Cache
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	predictionRepo repository.PredictionRepository,
	jwtService *auth.JWTService,
	store *storage.Store,
	cacheClient Cache,
) UserService {
	return &userService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		jwtService:     jwtService,
		store:          store,
		cache:          cacheClient,
	}
}

// Signup registers a new user with a hashed password and issues a token.
func (s *userService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, "", apperrors.ErrMissingFields
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	var imagePath string
	if in.ProfileImage != nil {
		imagePath, err = s.store.Save(in.ProfileImage, storage.ProfileDir)
		if err != nil {
			return nil, "", fmt.Errorf("store profile image: %w", err)
		}
	}

	user := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Gender:       in.Gender,
		Phone:        in.Phone,
		ProfileImage: imagePath,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can slip past the pre-check and hit the
		// unique email index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrEmailExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// UpdateProfile overwrites stored attributes where the request supplies them.
func (s *userService) UpdateProfile(ctx context.Context, email string, in ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Gender != "" {
		user.Gender = in.Gender
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.ProfileImage != nil {
		imagePath, err := s.store.Save(in.ProfileImage, storage.ProfileDir)
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		user.ProfileImage = imagePath
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user row, all of the user's prediction records
// and the stored profile image file.
func (s *userService) DeleteAccount(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.predictionRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("delete predictions: %w", err)
	}

	if err := s.store.Remove(user.ProfileImage); err != nil {
		return fmt.Errorf("delete profile image: %w", err)
	}

	if err := s.userRepo.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, recentPredictionsKey(email))
	}
	return nil
}
