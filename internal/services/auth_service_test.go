package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serenispa/serenity-api/internal/models"
	"gorm.io/gorm"
)

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil)

	_, err := service.Login(context.Background(), "nobody@serenityspa.com", "password123", "", "")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)

	userRepo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                1,
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusInactive,
			}, nil
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil)

	_, err = service.Login(context.Background(), "maya@serenityspa.com", "password123", "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)

	userRepo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:                1,
				Email:             email,
				EncryptedPassword: hash,
				Status:            models.StatusActive,
			}, nil
		},
	}
	service := NewAuthService(userRepo, nil, nil, nil)

	_, err = service.Login(context.Background(), "maya@serenityspa.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-phrase")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-phrase", hash)

	assert.True(t, VerifyPassword("s3cret-phrase", hash))
	assert.False(t, VerifyPassword("other-phrase", hash))
}
