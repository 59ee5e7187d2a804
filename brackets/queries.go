package brackets

import (
	"github.com/Dosada05/bracket-engine/models"
)

// ListReadyMatches returns the matches that can be played now, by id.
func ListReadyMatches(b *models.Bracket) []models.Match {
	var ready []models.Match
	for _, m := range b.Matches {
		if m.State == models.MatchReadyToPlay {
			ready = append(ready, m)
		}
	}
	return ready
}

// Standings returns the final standing, or nil while the bracket is running.
func Standings(b *models.Bracket) []models.Standing {
	if !b.Concluded {
		return nil
	}
	return append([]models.Standing(nil), b.Standings...)
}

func IsOver(b *models.Bracket) bool {
	return b.Concluded
}

// Eliminated lists eliminated participants in elimination order.
func Eliminated(b *models.Bracket) []string {
	ids := make([]string, 0, len(b.Eliminations))
	for _, e := range b.Eliminations {
		ids = append(ids, e.ParticipantID)
	}
	return ids
}

// Disqualified lists disqualified participants in registration order.
func Disqualified(b *models.Bracket) []string {
	var ids []string
	for _, p := range b.Participants {
		if p.IsDisqualified() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// NextMatch is a participant's upcoming match. OpponentID is empty while the
// opponent is still unknown.
type NextMatch struct {
	Match      models.Match `json:"match"`
	OpponentID string       `json:"opponent_id,omitempty"`
}

// NextOpponent finds the match the participant plays next.
func NextOpponent(b *models.Bracket, participantID string) (NextMatch, error) {
	p, err := lookupParticipant(b, participantID)
	if err != nil {
		return NextMatch{}, err
	}
	if p.IsDisqualified() {
		return NextMatch{}, ErrForbiddenDisqualified
	}
	if b.Concluded {
		return NextMatch{}, ErrBracketIsOver
	}
	for _, m := range b.Matches {
		if m.Resolved() || m.SlotOf(participantID) < 0 {
			continue
		}
		opponent, _ := m.Opponent(participantID)
		return NextMatch{Match: m, OpponentID: opponent}, nil
	}
	return NextMatch{}, ErrNoMatchToPlay
}

// MatchesOf returns every match the participant has been placed in, by id.
func MatchesOf(b *models.Bracket, participantID string) ([]models.Match, error) {
	if _, err := lookupParticipant(b, participantID); err != nil {
		return nil, err
	}
	var matches []models.Match
	for _, m := range b.Matches {
		if m.SlotOf(participantID) >= 0 {
			matches = append(matches, m)
		}
	}
	return matches, nil
}
