package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

type DoubleEliminationGenerator struct {
}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return string(models.FormatDoubleElimination)
}

// GenerateBracket builds the winner tree, the loser tree and the grand final.
// The bracket reset is only created once the loser-tree champion wins the
// grand final.
func (g *DoubleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	b, err := newBracket(models.FormatDoubleElimination, params)
	if err != nil {
		return nil, err
	}
	merger := NewDoubleEliminationMerger(b.Settings.RematchPolicy)

	winnerFinalID := buildWinnerTree(b)
	loserFinalID := buildLoserTree(b)

	grandFinalID := addMatch(b, models.SideGrandFinal, 1, 0)
	setSlot(b, grandFinalID, 0, models.Slot{
		Kind:   models.SlotPending,
		Source: &models.SlotSource{MatchID: winnerFinalID, Outcome: models.SourceWinner},
	})
	if loserFinalID != 0 {
		setSlot(b, grandFinalID, 1, models.Slot{
			Kind:   models.SlotPending,
			Source: &models.SlotSource{MatchID: loserFinalID, Outcome: models.SourceWinner},
		})
	}

	// Wire every winner-tree drop into the slot the merger routes it to.
	for i := range b.Matches {
		m := &b.Matches[i]
		if m.Side != models.SideWinners {
			continue
		}
		target, err := merger.DropTarget(b, m)
		if err != nil {
			return nil, err
		}
		t, _ := b.Match(target.MatchID)
		if t.Slots[target.Slot].Kind != "" {
			return nil, fmt.Errorf("%w: slot %d of match %d is fed twice", ErrRoutingInvariantViolation, target.Slot, target.MatchID)
		}
		t.Slots[target.Slot] = models.Slot{
			Kind:   models.SlotPending,
			Source: &models.SlotSource{MatchID: m.ID, Outcome: models.SourceLoser},
		}
	}

	for _, m := range b.Matches {
		for slot, s := range m.Slots {
			if s.Kind == "" {
				return nil, fmt.Errorf("%w: slot %d of match %d has no input", ErrRoutingInvariantViolation, slot, m.ID)
			}
		}
	}

	if err := settle(b); err != nil {
		return nil, err
	}
	return b, nil
}

// loserRounds returns the number of loser-tree rounds for a bracket size.
func loserRounds(size int) int {
	k := rounds(size)
	if k < 2 {
		return 0
	}
	return 2 * (k - 1)
}

// loserRoundMatches returns the number of matches in loser round lr.
func loserRoundMatches(size, lr int) int {
	return size >> ((lr+1)/2 + 1)
}

// buildLoserTree creates the loser rounds and links survivors between them.
// Slots fed by winner-tree drops are left empty for the merger to wire.
// Returns the loser final's id, or 0 when the bracket has no loser tree.
func buildLoserTree(b *models.Bracket) int {
	total := loserRounds(b.Seeding.Size)
	var previous []int
	for lr := 1; lr <= total; lr++ {
		count := loserRoundMatches(b.Seeding.Size, lr)
		current := make([]int, count)
		for i := 0; i < count; i++ {
			current[i] = addMatch(b, models.SideLosers, lr, i)
			switch {
			case lr == 1:
				// both slots are winner-tree round one drops
			case lr%2 == 0:
				// survivor against a fresh drop
				setSlot(b, current[i], 0, winnerOf(previous[i]))
			default:
				setSlot(b, current[i], 0, winnerOf(previous[2*i]))
				setSlot(b, current[i], 1, winnerOf(previous[2*i+1]))
			}
		}
		previous = current
	}
	if len(previous) == 0 {
		return 0
	}
	return previous[0]
}

func winnerOf(matchID int) models.Slot {
	return models.Slot{
		Kind:   models.SlotPending,
		Source: &models.SlotSource{MatchID: matchID, Outcome: models.SourceWinner},
	}
}
