package services

import "errors"

// Общие ошибки сервисов, используемые в маппинге HTTP.
var (
	// Ресурс не найден
	ErrBracketNotFound = errors.New("bracket not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrBracketNotConcluded = errors.New("bracket has not concluded yet")
	ErrBracketNameRequired = errors.New("bracket name is required")

	// Ошибки конфликтов
	ErrConcurrentModification = errors.New("bracket was modified by another request, retry")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials   = errors.New("invalid name or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
