package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/metrics"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type ParticipantInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seed int    `json:"seed,omitempty"`
}

type CreateBracketInput struct {
	Name         string             `json:"name"`
	Format       models.Format      `json:"format"`
	Participants []ParticipantInput `json:"participants"`
	// Seeding задаёт порядок слотов вручную; пустая строка означает bye.
	Seeding  []string         `json:"seeding,omitempty"`
	Settings *models.Settings `json:"settings,omitempty"`
}

type ReportInput struct {
	OwnScore      int `json:"own_score"`
	OpponentScore int `json:"opponent_score"`
}

type BracketService interface {
	CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error)
	GetBracket(ctx context.Context, bracketID string) (*models.Bracket, error)
	ListReadyMatches(ctx context.Context, bracketID string) ([]models.Match, error)
	GetStandings(ctx context.Context, bracketID string) ([]models.Standing, error)
	NextOpponent(ctx context.Context, bracketID, participantID string) (brackets.NextMatch, error)
	MatchesOf(ctx context.Context, bracketID, participantID string) ([]models.Match, error)
	PlayerPrincipal(ctx context.Context, bracketID, participantID string) (*models.Principal, error)

	ReportResult(ctx context.Context, bracketID string, matchID, score1, score2 int) (models.Outcome, error)
	ValidateMatch(ctx context.Context, bracketID string, matchID int) (models.Outcome, error)
	ReportFromParticipant(ctx context.Context, caller models.Principal, bracketID, participantID string, input ReportInput) (models.Outcome, error)
	Disqualify(ctx context.Context, bracketID, participantID string) (models.Outcome, error)
	CloseReporting(ctx context.Context, bracketID string) (models.Outcome, error)
	OpenReporting(ctx context.Context, bracketID string) (models.Outcome, error)
}

type bracketService struct {
	repo     repositories.BracketRepository
	defaults models.Settings
	metrics  *metrics.Metrics
	logger   *slog.Logger

	locks *keyedMutex
	loads singleflight.Group
	now   func() time.Time
}

func NewBracketService(
	repo repositories.BracketRepository,
	defaults models.Settings,
	m *metrics.Metrics,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		repo:     repo,
		defaults: defaults,
		metrics:  m,
		logger:   logger,
		locks:    newKeyedMutex(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *bracketService) CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrBracketNameRequired
	}
	settings := mergeSettings(s.defaults, input.Settings)
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	registry := brackets.NewParticipantRegistry()
	for _, p := range input.Participants {
		if err := registry.Register(strings.TrimSpace(p.ID), strings.TrimSpace(p.Name), p.Seed); err != nil {
			return nil, err
		}
	}

	var (
		b   *models.Bracket
		err error
	)
	if len(input.Seeding) > 0 {
		seeding := models.Seeding{Size: len(input.Seeding), Slots: input.Seeding}
		b, err = brackets.CreateSeededBracket(name, input.Format, registry.List(), seeding, settings)
	} else {
		b, err = brackets.CreateBracket(name, input.Format, registry.List(), settings)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, handleRepositoryError(err, b.ID)
	}

	s.metrics.BracketsCreated.WithLabelValues(string(b.Format)).Inc()
	s.logger.InfoContext(ctx, "bracket created",
		slog.String("bracket_id", b.ID),
		slog.String("format", string(b.Format)),
		slog.Int("participants", len(b.Participants)),
		slog.Int("matches", len(b.Matches)),
	)
	return b, nil
}

// load читает сетку только для чтения; одновременные запросы одной сетки
// схлопываются в одно обращение к хранилищу.
func (s *bracketService) load(ctx context.Context, bracketID string) (*models.Bracket, error) {
	v, err, _ := s.loads.Do(bracketID, func() (interface{}, error) {
		// Результат делят все ожидающие вызовы: отмена первого не должна их задеть.
		return s.repo.GetByID(context.WithoutCancel(ctx), bracketID)
	})
	if err != nil {
		return nil, handleRepositoryError(err, bracketID)
	}
	return v.(*models.Bracket).Clone(), nil
}

func (s *bracketService) GetBracket(ctx context.Context, bracketID string) (*models.Bracket, error) {
	return s.load(ctx, bracketID)
}

func (s *bracketService) ListReadyMatches(ctx context.Context, bracketID string) ([]models.Match, error) {
	b, err := s.load(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	return brackets.ListReadyMatches(b), nil
}

func (s *bracketService) GetStandings(ctx context.Context, bracketID string) ([]models.Standing, error) {
	b, err := s.load(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	if !brackets.IsOver(b) {
		return nil, fmt.Errorf("%w: %s", ErrBracketNotConcluded, bracketID)
	}
	return brackets.Standings(b), nil
}

func (s *bracketService) NextOpponent(ctx context.Context, bracketID, participantID string) (brackets.NextMatch, error) {
	b, err := s.load(ctx, bracketID)
	if err != nil {
		return brackets.NextMatch{}, err
	}
	return brackets.NextOpponent(b, participantID)
}

func (s *bracketService) MatchesOf(ctx context.Context, bracketID, participantID string) ([]models.Match, error) {
	b, err := s.load(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	return brackets.MatchesOf(b, participantID)
}

func (s *bracketService) PlayerPrincipal(ctx context.Context, bracketID, participantID string) (*models.Principal, error) {
	b, err := s.load(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	p, ok := b.Participant(participantID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", brackets.ErrUnknownParticipant, participantID)
	}
	return &models.Principal{
		Name:          p.Name,
		Role:          models.RolePlayer,
		BracketID:     b.ID,
		ParticipantID: p.ID,
	}, nil
}

func (s *bracketService) ReportResult(ctx context.Context, bracketID string, matchID, score1, score2 int) (models.Outcome, error) {
	out, err := s.mutate(ctx, bracketID, "report_result", func(b *models.Bracket) (models.Outcome, error) {
		return brackets.ReportResult(b, matchID, score1, score2)
	})
	if err != nil {
		return out, err
	}
	s.logger.InfoContext(ctx, "match result recorded",
		slog.String("bracket_id", bracketID),
		slog.Int("match_id", matchID),
		slog.Int("score1", score1),
		slog.Int("score2", score2),
		slog.Any("eliminated", out.Eliminated),
		slog.Bool("terminal", out.Terminal),
	)
	return out, nil
}

func (s *bracketService) ValidateMatch(ctx context.Context, bracketID string, matchID int) (models.Outcome, error) {
	out, err := s.mutate(ctx, bracketID, "validate_match", func(b *models.Bracket) (models.Outcome, error) {
		return brackets.ValidateMatch(b, matchID)
	})
	if err != nil {
		return out, err
	}
	s.logger.InfoContext(ctx, "match validated",
		slog.String("bracket_id", bracketID),
		slog.Int("match_id", matchID),
		slog.Bool("terminal", out.Terminal),
	)
	return out, nil
}

func (s *bracketService) ReportFromParticipant(ctx context.Context, caller models.Principal, bracketID, participantID string, input ReportInput) (models.Outcome, error) {
	if !caller.CanReportFor(bracketID, participantID) {
		return models.Outcome{}, ErrForbiddenOperation
	}
	out, err := s.mutate(ctx, bracketID, "participant_report", func(b *models.Bracket) (models.Outcome, error) {
		return brackets.ReportFromParticipant(b, participantID, input.OwnScore, input.OpponentScore)
	})
	if err != nil {
		return out, err
	}
	s.logger.InfoContext(ctx, "participant reported result",
		slog.String("bracket_id", bracketID),
		slog.String("participant_id", participantID),
		slog.Int("match_id", out.AffectedMatchID),
		slog.Bool("validated", len(out.Eliminated) > 0 || out.Terminal),
	)
	return out, nil
}

func (s *bracketService) Disqualify(ctx context.Context, bracketID, participantID string) (models.Outcome, error) {
	out, err := s.mutate(ctx, bracketID, "disqualify", func(b *models.Bracket) (models.Outcome, error) {
		return brackets.Disqualify(b, participantID)
	})
	if err != nil {
		return out, err
	}
	if len(out.Disqualified) > 0 {
		s.metrics.Disqualifications.Inc()
		s.logger.WarnContext(ctx, "participant disqualified",
			slog.String("bracket_id", bracketID),
			slog.String("participant_id", participantID),
			slog.Any("eliminated", out.Eliminated),
		)
	}
	return out, nil
}

func (s *bracketService) CloseReporting(ctx context.Context, bracketID string) (models.Outcome, error) {
	out, err := s.mutate(ctx, bracketID, "close_reporting", brackets.CloseReporting)
	if err != nil {
		return out, err
	}
	if out.ReportingChanged {
		s.logger.InfoContext(ctx, "bracket closed for results", slog.String("bracket_id", bracketID))
	}
	return out, nil
}

func (s *bracketService) OpenReporting(ctx context.Context, bracketID string) (models.Outcome, error) {
	out, err := s.mutate(ctx, bracketID, "open_reporting", brackets.OpenReporting)
	if err != nil {
		return out, err
	}
	if out.ReportingChanged {
		s.logger.InfoContext(ctx, "bracket reopened for results", slog.String("bracket_id", bracketID))
	}
	return out, nil
}

// mutate загружает сетку под блокировкой её id, применяет fn и сохраняет
// результат. Отклонённая движком операция ничего не пишет.
func (s *bracketService) mutate(ctx context.Context, bracketID, operation string, fn func(b *models.Bracket) (models.Outcome, error)) (models.Outcome, error) {
	start := time.Now()
	result := "error"
	defer func() {
		s.metrics.Operations.WithLabelValues(operation, result).Inc()
		s.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	unlock := s.locks.lock(bracketID)
	defer unlock()

	b, err := s.repo.GetByID(ctx, bracketID)
	if err != nil {
		return models.Outcome{}, handleRepositoryError(err, bracketID)
	}
	wasConcluded := b.Concluded

	out, err := fn(b)
	if err != nil {
		result = "rejected"
		return models.Outcome{}, err
	}
	if out.Empty() && out.AffectedMatchID == 0 {
		result = "noop"
		return out, nil
	}

	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.ErrorContext(ctx, "failed to save bracket",
			slog.String("bracket_id", bracketID),
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return models.Outcome{}, handleRepositoryError(err, bracketID)
	}

	if b.Concluded && !wasConcluded {
		s.metrics.BracketsConcluded.Inc()
		s.logger.InfoContext(ctx, "bracket concluded", slog.String("bracket_id", bracketID))
	}
	result = "ok"
	return out, nil
}
