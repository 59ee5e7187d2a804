package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Dosada05/bracket-engine/models"
)

var (
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrBracketIDConflict      = errors.New("bracket id already exists")
	ErrBracketVersionConflict = errors.New("bracket was modified concurrently")
)

// BracketRepository хранит сетку целиком. Update применяет оптимистичную
// блокировку по Version, увеличивает её при успехе и сбрасывает отметку
// архива: выгруженные итоги больше не соответствуют сетке. MarkArchived
// ставит отметку только для той версии, которая была выгружена.
type BracketRepository interface {
	Create(ctx context.Context, bracket *models.Bracket) error
	GetByID(ctx context.Context, id string) (*models.Bracket, error)
	Update(ctx context.Context, bracket *models.Bracket) error
	ListConcludedUnarchived(ctx context.Context, limit int) ([]*models.Bracket, error)
	MarkArchived(ctx context.Context, id string, version int, at time.Time) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) Create(ctx context.Context, b *models.Bracket) error {
	state, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode bracket %s: %w", b.ID, err)
	}
	if b.Version == 0 {
		b.Version = 1
	}

	query := `
		INSERT INTO brackets (
			id, name, bracket_type, participant_ids, concluded, state, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Format, pq.Array(b.ParticipantIDs()), b.Concluded, state, b.Version, b.CreatedAt, b.UpdatedAt,
	)
	return r.handleBracketError(err)
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, id string) (*models.Bracket, error) {
	query := `
		SELECT state, version, archived_at
		FROM brackets
		WHERE id = $1`

	b, err := scanBracket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *postgresBracketRepository) Update(ctx context.Context, b *models.Bracket) error {
	state, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode bracket %s: %w", b.ID, err)
	}

	query := `
		UPDATE brackets SET
			name = $1,
			concluded = $2,
			state = $3,
			updated_at = $4,
			archived_at = NULL,
			version = version + 1
		WHERE id = $5 AND version = $6`

	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.Concluded, state, b.UpdatedAt,
		b.ID, b.Version,
	)
	if err != nil {
		return r.handleBracketError(err)
	}
	if err := r.checkVersionedWrite(ctx, result, b.ID); err != nil {
		return err
	}

	b.Version++
	b.ArchivedAt = nil
	return nil
}

// checkVersionedWrite отличает устаревшую версию от отсутствующей сетки,
// когда условный UPDATE не затронул ни одной строки.
func (r *postgresBracketRepository) checkVersionedWrite(ctx context.Context, result sql.Result, id string) error {
	err := checkAffectedRows(result, ErrBracketVersionConflict)
	if !errors.Is(err, ErrBracketVersionConflict) {
		return err
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM brackets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check bracket %s: %w", id, err)
	}
	if !exists {
		return ErrBracketNotFound
	}
	return ErrBracketVersionConflict
}

func (r *postgresBracketRepository) ListConcludedUnarchived(ctx context.Context, limit int) ([]*models.Bracket, error) {
	query := `
		SELECT state, version, archived_at
		FROM brackets
		WHERE concluded AND archived_at IS NULL
		ORDER BY updated_at, id
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list concluded brackets: %w", err)
	}
	defer rows.Close()

	var brackets []*models.Bracket
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, err
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bracket rows: %w", err)
	}
	return brackets, nil
}

func (r *postgresBracketRepository) MarkArchived(ctx context.Context, id string, version int, at time.Time) error {
	query := `UPDATE brackets SET archived_at = $1 WHERE id = $2 AND version = $3`

	result, err := r.db.ExecContext(ctx, query, at, id, version)
	if err != nil {
		return r.handleBracketError(err)
	}
	return r.checkVersionedWrite(ctx, result, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBracket decodes the JSONB state; version and archived_at columns win
// over their copies inside the document.
func scanBracket(row rowScanner) (*models.Bracket, error) {
	var (
		state      []byte
		version    int
		archivedAt sql.NullTime
	)
	if err := row.Scan(&state, &version, &archivedAt); err != nil {
		return nil, err
	}

	var b models.Bracket
	if err := json.Unmarshal(state, &b); err != nil {
		return nil, fmt.Errorf("failed to decode bracket state: %w", err)
	}
	b.Version = version
	b.ArchivedAt = nil
	if archivedAt.Valid {
		at := archivedAt.Time
		b.ArchivedAt = &at
	}
	return &b, nil
}

func (r *postgresBracketRepository) handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "brackets_pkey" {
				return ErrBracketIDConflict
			}
		}
	}
	return err
}
