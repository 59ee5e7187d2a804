package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type GenerateBracketParams struct {
	Name         string
	Participants []models.Participant
	Seeding      models.Seeding
	Settings     models.Settings
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*models.Bracket, error)

	GetName() string
}

func NewGenerator(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// node is an entry of the round being paired: a participant, a bye or the
// winner of an already generated match.
type node struct {
	participantID string
	sourceMatchID int
	isBye         bool
}

func (n node) slot() models.Slot {
	switch {
	case n.isBye:
		return models.Slot{Kind: models.SlotBye}
	case n.sourceMatchID != 0:
		return models.Slot{
			Kind:   models.SlotPending,
			Source: &models.SlotSource{MatchID: n.sourceMatchID, Outcome: models.SourceWinner},
		}
	default:
		return models.Slot{Kind: models.SlotParticipant, ParticipantID: n.participantID}
	}
}

// newBracket validates the seeding against the participants and prepares an
// empty aggregate.
func newBracket(format models.Format, params GenerateBracketParams) (*models.Bracket, error) {
	if params.Seeding.Participants() == 0 {
		return nil, ErrEmptySeeding
	}
	if params.Seeding.Size != len(params.Seeding.Slots) || params.Seeding.Size < 2 || bracketSize(params.Seeding.Size) != params.Seeding.Size {
		return nil, fmt.Errorf("%w: seeding size %d with %d slots", ErrInvalidSeeding, params.Seeding.Size, len(params.Seeding.Slots))
	}

	registry, err := registryFrom(params.Participants)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(params.Seeding.Slots))
	for _, id := range params.Seeding.Slots {
		if id == "" {
			continue
		}
		if _, err := registry.Get(id); err != nil {
			return nil, err
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s is seeded twice", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}
	if len(seen) != registry.Len() {
		return nil, fmt.Errorf("%w: %d participants registered but %d seeded", ErrInvalidSeeding, registry.Len(), len(seen))
	}
	if len(seen) < 2 {
		return nil, ErrInsufficientParticipants
	}

	return &models.Bracket{
		Name:         params.Name,
		Format:       format,
		Settings:     normalizeSettings(params.Settings),
		Participants: registry.List(),
		Seeding: models.Seeding{
			Size:  params.Seeding.Size,
			Slots: append([]string(nil), params.Seeding.Slots...),
		},
	}, nil
}

// addMatch appends a match and returns its id. Pointers into b.Matches are
// invalidated by this call.
func addMatch(b *models.Bracket, side models.BracketSide, round, index int) int {
	id := len(b.Matches) + 1
	b.Matches = append(b.Matches, models.Match{
		ID:    id,
		Side:  side,
		Round: round,
		Index: index,
		State: models.MatchAwaitingInputs,
	})
	return id
}

// setSlot places an input into a match and links winner sources to it.
func setSlot(b *models.Bracket, matchID, slot int, s models.Slot) {
	b.Matches[matchID-1].Slots[slot] = s
	if s.Source != nil && s.Source.Outcome == models.SourceWinner {
		b.Matches[s.Source.MatchID-1].WinnerTo = &models.SlotRef{MatchID: matchID, Slot: slot}
	}
}

// buildWinnerTree pairs the seeding round by round and returns the final's id.
func buildWinnerTree(b *models.Bracket) int {
	currentRoundNodes := make([]node, len(b.Seeding.Slots))
	for i, id := range b.Seeding.Slots {
		if id == "" {
			currentRoundNodes[i] = node{isBye: true}
		} else {
			currentRoundNodes[i] = node{participantID: id}
		}
	}

	numRounds := rounds(b.Seeding.Size)
	for r := 1; r <= numRounds; r++ {
		nextRoundNodes := make([]node, 0, len(currentRoundNodes)/2)
		for i := 0; i < len(currentRoundNodes); i += 2 {
			matchID := addMatch(b, models.SideWinners, r, i/2)
			setSlot(b, matchID, 0, currentRoundNodes[i].slot())
			setSlot(b, matchID, 1, currentRoundNodes[i+1].slot())
			nextRoundNodes = append(nextRoundNodes, node{sourceMatchID: matchID})
		}
		currentRoundNodes = nextRoundNodes
	}
	return currentRoundNodes[0].sourceMatchID
}

// settle resolves byes left by construction. Matches are visited in id order,
// and every source has a lower id than its target.
func settle(b *models.Bracket) error {
	p := newProgression(b)
	for id := 1; id <= len(b.Matches); id++ {
		if err := p.advance(id); err != nil {
			return err
		}
	}
	return nil
}

func normalizeSettings(s models.Settings) models.Settings {
	if s.MaxScore < 0 {
		s.MaxScore = 0
	}
	if s.ForfeitScore <= 0 {
		s.ForfeitScore = 1
	}
	if s.MaxScore > 0 && s.ForfeitScore > s.MaxScore {
		s.ForfeitScore = s.MaxScore
	}
	switch s.ValidationMode {
	case models.ValidationStrict, models.ValidationFlexible, models.ValidationLax:
	default:
		s.ValidationMode = models.ValidationStrict
	}
	switch s.RematchPolicy {
	case models.RematchMinimize, models.RematchAllow:
	default:
		s.RematchPolicy = models.RematchMinimize
	}
	return s
}
