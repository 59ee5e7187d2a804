package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/bracket-engine/metrics"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/storage"
)

// StandingsArchiver uploads the final standings of a concluded bracket.
type StandingsArchiver interface {
	Put(ctx context.Context, b *models.Bracket) (*storage.UploadResult, error)
}

// ArchiveService периодически выгружает итоги завершённых сеток в
// объектное хранилище и помечает их как заархивированные.
type ArchiveService struct {
	repo     repositories.BracketRepository
	archiver StandingsArchiver
	metrics  *metrics.Metrics
	logger   *slog.Logger

	batchSize   int
	concurrency int
	now         func() time.Time
}

func NewArchiveService(repo repositories.BracketRepository, archiver StandingsArchiver, m *metrics.Metrics, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		repo:        repo,
		archiver:    archiver,
		metrics:     m,
		logger:      logger,
		batchSize:   50,
		concurrency: 4,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Sweep archives one batch and returns how many brackets were archived.
// A failed upload does not stop the rest of the batch.
func (s *ArchiveService) Sweep(ctx context.Context) (int, error) {
	pending, err := s.repo.ListConcludedUnarchived(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list brackets to archive: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var (
		mu       sync.Mutex
		archived int
		failures []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, b := range pending {
		g.Go(func() error {
			ok, err := s.archiveOne(gctx, b)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return nil
			}
			if ok {
				archived++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return archived, err
	}
	return archived, errors.Join(failures...)
}

// archiveOne uploads b and marks that version archived. A bracket changed
// after it was listed stays unarchived and is uploaded again next sweep.
func (s *ArchiveService) archiveOne(ctx context.Context, b *models.Bracket) (bool, error) {
	res, err := s.archiver.Put(ctx, b)
	if err != nil {
		s.metrics.Archived.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "failed to upload standings",
			slog.String("bracket_id", b.ID),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("bracket %s: %w", b.ID, err)
	}
	err = s.repo.MarkArchived(ctx, b.ID, b.Version, s.now())
	if errors.Is(err, repositories.ErrBracketVersionConflict) {
		s.metrics.Archived.WithLabelValues("stale").Inc()
		s.logger.WarnContext(ctx, "bracket changed while archiving, will retry",
			slog.String("bracket_id", b.ID),
			slog.Int("version", b.Version),
		)
		return false, nil
	}
	if err != nil {
		s.metrics.Archived.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "failed to mark bracket archived",
			slog.String("bracket_id", b.ID),
			slog.String("key", res.Key),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("bracket %s: %w", b.ID, err)
	}
	s.metrics.Archived.WithLabelValues("ok").Inc()
	s.logger.InfoContext(ctx, "standings archived",
		slog.String("bracket_id", b.ID),
		slog.String("key", res.Key),
		slog.String("url", res.Location),
		slog.Int64("bytes", res.Size),
	)
	return true, nil
}

// Start runs Sweep every interval until the returned scheduler is shut down.
func (s *ArchiveService) Start(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create archive scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runCtx, cancel := context.WithTimeout(ctx, interval)
			defer cancel()
			n, err := s.Sweep(runCtx)
			if err != nil {
				s.logger.WarnContext(runCtx, "archive sweep finished with errors", slog.Int("archived", n), slog.Any("error", err))
				return
			}
			if n > 0 {
				s.logger.InfoContext(runCtx, "archive sweep finished", slog.Int("archived", n))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule archive sweep: %w", err)
	}

	sched.Start()
	return sched, nil
}
