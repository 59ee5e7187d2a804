package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

// keyedMutex сериализует изменения одной сетки, не блокируя остальные.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// lock блокирует ключ и возвращает функцию разблокировки.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// handleRepositoryError переводит ошибки репозитория в ошибки сервиса.
func handleRepositoryError(err error, bracketID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrBracketNotFound):
		return fmt.Errorf("%w: %s", ErrBracketNotFound, bracketID)
	case errors.Is(err, repositories.ErrBracketVersionConflict), errors.Is(err, repositories.ErrBracketIDConflict):
		return fmt.Errorf("%w: %s", ErrConcurrentModification, bracketID)
	default:
		return fmt.Errorf("bracket storage failure (id %s): %w", bracketID, err)
	}
}

// mergeSettings накладывает заданные поля запроса на настройки по умолчанию.
func mergeSettings(defaults models.Settings, override *models.Settings) models.Settings {
	s := defaults
	if override == nil {
		return s
	}
	if override.MaxScore != 0 {
		s.MaxScore = override.MaxScore
	}
	if override.ForfeitScore != 0 {
		s.ForfeitScore = override.ForfeitScore
	}
	if override.ValidationMode != "" {
		s.ValidationMode = override.ValidationMode
	}
	if override.RematchPolicy != "" {
		s.RematchPolicy = override.RematchPolicy
	}
	if override.SeedingMethod != "" {
		s.SeedingMethod = override.SeedingMethod
	}
	return s
}

func validateSettings(s models.Settings) error {
	if s.MaxScore < 0 {
		return fmt.Errorf("%w: max_score must not be negative", ErrValidationFailed)
	}
	if s.ForfeitScore < 0 || (s.MaxScore > 0 && s.ForfeitScore > s.MaxScore) {
		return fmt.Errorf("%w: forfeit_score must be between 0 and max_score", ErrValidationFailed)
	}
	switch s.ValidationMode {
	case "", models.ValidationStrict, models.ValidationFlexible, models.ValidationLax:
	default:
		return fmt.Errorf("%w: unknown validation_mode %q", ErrValidationFailed, s.ValidationMode)
	}
	switch s.RematchPolicy {
	case "", models.RematchMinimize, models.RematchAllow:
	default:
		return fmt.Errorf("%w: unknown rematch_policy %q", ErrValidationFailed, s.RematchPolicy)
	}
	switch s.SeedingMethod {
	case "", models.SeedingStrict, models.SeedingRandom:
	default:
		return fmt.Errorf("%w: unknown seeding_method %q", ErrValidationFailed, s.SeedingMethod)
	}
	return nil
}
