package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-engine/models"
)

func participants(ids ...string) []models.Participant {
	ps := make([]models.Participant, len(ids))
	for i, id := range ids {
		ps[i] = models.Participant{ID: id, Name: "Player " + id, RegistrationOrder: i}
	}
	return ps
}

func numbered(n int) []models.Participant {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%02d", i+1)
	}
	return participants(ids...)
}

// seeded builds a bracket with the slots in exactly the given order.
func seeded(t *testing.T, format models.Format, settings models.Settings, slots ...string) *models.Bracket {
	t.Helper()
	var ids []string
	for _, id := range slots {
		if id != "" {
			ids = append(ids, id)
		}
	}
	b, err := CreateSeededBracket("test", format, participants(ids...), models.Seeding{Size: len(slots), Slots: slots}, settings)
	require.NoError(t, err)
	return b
}

func mustReport(t *testing.T, b *models.Bracket, matchID, score1, score2 int) models.Outcome {
	t.Helper()
	out, err := ReportResult(b, matchID, score1, score2)
	require.NoError(t, err)
	return out
}

func matchIDs(matches []models.Match) []int {
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

func match(t *testing.T, b *models.Bracket, id int) *models.Match {
	t.Helper()
	m, ok := b.Match(id)
	require.True(t, ok, "match %d", id)
	return m
}

// checkInvariants verifies the state every bracket must be in between
// mutations.
func checkInvariants(t *testing.T, b *models.Bracket) {
	t.Helper()
	pending := make(map[string]int)
	for _, m := range b.Matches {
		if m.State == models.MatchReadyToPlay {
			for _, s := range m.Slots {
				require.Equal(t, models.SlotParticipant, s.Kind, "ready match %d has an unresolved input", m.ID)
			}
		}
		if m.State == models.MatchAwaitingInputs {
			require.False(t, m.Slots[0].Resolved() && m.Slots[1].Resolved(), "match %d should have been resolved", m.ID)
		}
		if m.Resolved() {
			continue
		}
		for _, s := range m.Slots {
			if id, ok := s.Occupant(); ok {
				pending[id]++
			}
		}
	}
	for id, n := range pending {
		require.LessOrEqual(t, n, 1, "%s is booked in %d unresolved matches", id, n)
	}
}

// playOut reports results until the bracket concludes, letting winnerSlot win
// every match, and returns how many matches were played.
func playOut(t *testing.T, b *models.Bracket, winnerSlot int) int {
	t.Helper()
	return playOutWith(t, b, func(models.Match) int { return winnerSlot })
}

// playOutWith lets pick choose the winning slot of each ready match.
func playOutWith(t *testing.T, b *models.Bracket, pick func(m models.Match) int) int {
	t.Helper()
	played := 0
	for guard := 0; !IsOver(b); guard++ {
		require.Less(t, guard, 4*len(b.Participants)+4, "bracket does not conclude")
		checkInvariants(t, b)
		ready := ListReadyMatches(b)
		require.NotEmpty(t, ready, "bracket stalled")
		require.IsIncreasing(t, matchIDs(ready))

		score1, score2 := 2, 1
		if pick(ready[0]) == 1 {
			score1, score2 = 1, 2
		}
		mustReport(t, b, ready[0].ID, score1, score2)
		played++
	}
	checkInvariants(t, b)
	return played
}
