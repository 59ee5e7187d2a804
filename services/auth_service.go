package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/bracket-engine/models"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.Principal, error)
}

type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// authService проверяет единственную учётную запись организатора из конфигурации.
type authService struct {
	organiserName string
	passwordHash  []byte
}

func NewAuthService(organiserName, passwordHash string) AuthService {
	return &authService{
		organiserName: organiserName,
		passwordHash:  []byte(passwordHash),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Principal, error) {
	if len(s.passwordHash) == 0 {
		// Вход организатора выключен, пока не задан ORGANISER_PASSWORD_HASH.
		return nil, ErrAuthenticationFailed
	}
	if input.Name == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	nameOK := subtle.ConstantTimeCompare([]byte(input.Name), []byte(s.organiserName)) == 1
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	if !nameOK {
		return nil, ErrInvalidCredentials
	}

	return &models.Principal{Name: s.organiserName, Role: models.RoleOrganiser}, nil
}
