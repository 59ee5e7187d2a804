package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/bracket-engine/models"
)

// R2Config описывает доступ к бакету Cloudflare R2 для архива итогов.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled сообщает, заданы ли все обязательные параметры R2.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	// DatabaseURL пустой: сетки хранятся в памяти процесса.
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	OrganiserName         string
	OrganiserPasswordHash string

	// Bracket задаёт настройки по умолчанию для новых сеток.
	Bracket models.Settings

	R2              R2Config
	ArchiveInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxScore, err := intEnv("MAX_SCORE", 0)
	if err != nil {
		return nil, err
	}
	if maxScore < 0 {
		return nil, fmt.Errorf("MAX_SCORE must not be negative, got %d", maxScore)
	}

	forfeitScore, err := intEnv("FORFEIT_SCORE", 1)
	if err != nil {
		return nil, err
	}

	mode := models.ValidationMode(stringEnv("VALIDATION_MODE", string(models.ValidationStrict)))
	switch mode {
	case models.ValidationStrict, models.ValidationFlexible, models.ValidationLax:
	default:
		return nil, fmt.Errorf("VALIDATION_MODE must be one of strict, flexible, lax, got %q", mode)
	}

	policy := models.RematchPolicy(stringEnv("REMATCH_POLICY", string(models.RematchMinimize)))
	switch policy {
	case models.RematchMinimize, models.RematchAllow:
	default:
		return nil, fmt.Errorf("REMATCH_POLICY must be one of minimize, allow, got %q", policy)
	}

	seeding := models.SeedingMethod(stringEnv("SEEDING_METHOD", string(models.SeedingStrict)))
	switch seeding {
	case models.SeedingStrict, models.SeedingRandom:
	default:
		return nil, fmt.Errorf("SEEDING_METHOD must be one of strict, random, got %q", seeding)
	}

	interval, err := time.ParseDuration(stringEnv("ARCHIVE_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_INTERVAL environment variable: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("ARCHIVE_INTERVAL must be positive, got %s", interval)
	}

	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecretKey:          jwtKey,
		ServerPort:            port,
		OrganiserName:         stringEnv("ORGANISER_NAME", "organiser"),
		OrganiserPasswordHash: os.Getenv("ORGANISER_PASSWORD_HASH"),
		Bracket: models.Settings{
			MaxScore:       maxScore,
			ForfeitScore:   forfeitScore,
			ValidationMode: mode,
			RematchPolicy:  policy,
			SeedingMethod:  seeding,
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		ArchiveInterval: interval,
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
