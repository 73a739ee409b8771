// Package auth содержит логику входа и регистрации покупателей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/guitar-shop/internal/lib/password"
	"github.com/magabrotheeeer/guitar-shop/internal/lib/sl"
	"github.com/magabrotheeeer/guitar-shop/internal/models"
	"github.com/magabrotheeeer/guitar-shop/internal/storage"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

var (
	// ErrInvalidCredentials возвращается при неизвестном email или неверном пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken возвращается, если покупатель с таким email уже есть.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository описывает контракт для работы с покупателями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового покупателя и возвращает его UUID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает покупателя по email или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RegisterRequest - данные для регистрации покупателя.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Service отвечает за регистрацию и проверку учётных данных.
type Service struct {
	users UserRepository
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, log *slog.Logger) *Service {
	return &Service{
		users: users,
		log:   log,
	}
}

// Login проверяет пароль покупателя и возвращает данные для хранилища сессии.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (stores.Identity, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return stores.Identity{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return stores.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("stored password hash is broken",
				slog.String("op", op), slog.String("user_uid", user.UUID), sl.Err(err))
		}
		return stores.Identity{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return stores.Identity{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}, nil
}

// Register создаёт покупателя с хешированным паролем и возвращает его UUID.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.RegisterUser(ctx, models.User{
		Email:        normalizeEmail(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashed,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
