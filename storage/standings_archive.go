package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/Dosada05/bracket-engine/models"
)

// StandingsDocument is the archived record of a concluded bracket.
type StandingsDocument struct {
	BracketID    string            `json:"bracket_id"`
	Name         string            `json:"name"`
	Format       models.Format     `json:"format"`
	Participants int               `json:"participants"`
	Standings    []models.Standing `json:"standings"`
	Matches      []models.Match    `json:"matches"`
	ConcludedAt  time.Time         `json:"concluded_at"`
}

// StandingsArchive uploads final standings of concluded brackets.
type StandingsArchive struct {
	uploader ObjectWriter
	prefix   string
}

func NewStandingsArchive(uploader ObjectWriter) *StandingsArchive {
	return &StandingsArchive{uploader: uploader, prefix: "standings"}
}

// Key builds a readable, collision-free object key for a bracket.
func (a *StandingsArchive) Key(b *models.Bracket) string {
	name := slug.Make(b.Name)
	if name == "" {
		return fmt.Sprintf("%s/%s.json", a.prefix, b.ID)
	}
	return fmt.Sprintf("%s/%s-%s.json", a.prefix, name, b.ID)
}

func (a *StandingsArchive) Put(ctx context.Context, b *models.Bracket) (*UploadResult, error) {
	if !b.Concluded {
		return nil, fmt.Errorf("bracket %s is not concluded", b.ID)
	}

	doc := StandingsDocument{
		BracketID:    b.ID,
		Name:         b.Name,
		Format:       b.Format,
		Participants: len(b.Participants),
		Standings:    b.Standings,
		Matches:      b.Matches,
		ConcludedAt:  b.UpdatedAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings of bracket %s: %w", b.ID, err)
	}

	return a.uploader.Upload(ctx, a.Key(b), "application/json", body)
}
