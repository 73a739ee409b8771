package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/password"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/services/auth"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Login(t *testing.T) {
	hash, err := password.Hash("secret123")
	require.NoError(t, err)

	leo := &models.User{
		UUID:         "uid-1",
		Email:        "leo@x.com",
		FirstName:    "Leo",
		LastName:     "G",
		PasswordHash: hash,
	}

	tests := []struct {
		name         string
		email        string
		password     string
		setupMocks   func(r *UserRepoMock)
		wantIdentity stores.Identity
		wantErr      error
	}{
		{
			name:     "successful login",
			email:    "  LEO@x.com ",
			password: "secret123",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "leo@x.com").Return(leo, nil).Once()
			},
			wantIdentity: stores.Identity{FirstName: "Leo", LastName: "G", Email: "leo@x.com"},
		},
		{
			name:     "wrong password",
			email:    "leo@x.com",
			password: "nope",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "leo@x.com").Return(leo, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@x.com",
			password: "secret123",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@x.com").
					Return(nil, fmt.Errorf("storage.GetUserByEmail: %w", storage.ErrNotFound)).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "broken hash",
			email:    "leo@x.com",
			password: "secret123",
			setupMocks: func(r *UserRepoMock) {
				broken := *leo
				broken.PasswordHash = "not-a-bcrypt-hash"
				r.On("GetUserByEmail", mock.Anything, "leo@x.com").Return(&broken, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := auth.NewService(repo, newNoopLogger())

			identity, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, stores.Identity{}, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantIdentity, identity)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login_RepositoryError(t *testing.T) {
	repo := new(UserRepoMock)
	dbErr := errors.New("db down")
	repo.On("GetUserByEmail", mock.Anything, "leo@x.com").Return(nil, dbErr).Once()

	_, err := auth.NewService(repo, newNoopLogger()).Login(context.Background(), "leo@x.com", "x")

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantUID    string
		wantErr    error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "leo@x.com" &&
						user.FirstName == "Leo" &&
						user.LastName == "G" &&
						password.Compare(user.PasswordHash, "secret123") == nil
				})).Return("uid-1", nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name: "email taken",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("storage.RegisterUser: %w", storage.ErrAlreadyExists)).Once()
			},
			wantErr: auth.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc := auth.NewService(repo, newNoopLogger())

			uid, err := svc.Register(context.Background(), auth.RegisterRequest{
				Email:     " Leo@X.com",
				Password:  "secret123",
				FirstName: "Leo ",
				LastName:  "G",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, uid)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}
			repo.AssertExpectations(t)
		})
	}
}
