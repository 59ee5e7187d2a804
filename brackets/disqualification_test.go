package brackets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-engine/models"
)

func TestDisqualify_ReadyMatchIsForfeited(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{ForfeitScore: 3}, "A", "B", "C", "D")

	out, err := Disqualify(b, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, out.Disqualified)
	assert.Equal(t, []string{"B"}, out.Eliminated)
	assert.Equal(t, 1, out.AffectedMatchID)
	assert.Empty(t, out.NewlyReady)

	m := match(t, b, 1)
	assert.Equal(t, models.MatchPlayed, m.State)
	assert.True(t, m.Forfeit)
	assert.Equal(t, "A", m.WinnerID)
	assert.Equal(t, &models.BracketResult{Score1: 3, Score2: 0}, m.Result)
	assert.Equal(t, "A", match(t, b, 3).Slots[0].ParticipantID)

	p, _ := b.Participant("B")
	assert.Equal(t, models.ParticipantDisqualified, p.Status)
	assert.Equal(t, []string{"B"}, Disqualified(b))
	require.Len(t, b.Eliminations, 1)
	assert.True(t, b.Eliminations[0].Disqualified)
}

func TestDisqualify_Idempotent(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{}, "A", "B", "C", "D")

	_, err := Disqualify(b, "C")
	require.NoError(t, err)
	once := b.Clone()

	out, err := Disqualify(b, "C")
	require.NoError(t, err)
	assert.True(t, out.Empty())
	if diff := cmp.Diff(once, b); diff != "" {
		t.Errorf("second disqualification changed the bracket (-once +twice):\n%s", diff)
	}
}

func TestDisqualify_UnknownParticipant(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{}, "A", "B")
	_, err := Disqualify(b, "Z")
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestDisqualify_StandingForfeit(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{}, "A", "B", "C", "D")
	mustReport(t, b, 1, 2, 0)

	// A waits for the winner of match 2 and is disqualified meanwhile
	out, err := Disqualify(b, "A")
	require.NoError(t, err)
	assert.Empty(t, out.Eliminated)
	final := match(t, b, 3)
	assert.Equal(t, models.SlotForfeit, final.Slots[0].Kind)
	assert.Equal(t, models.MatchAwaitingInputs, final.State)

	out = mustReport(t, b, 2, 2, 1)
	assert.Equal(t, []string{"D", "A"}, out.Eliminated)
	assert.Empty(t, out.NewlyReady, "the final resolves without being played")
	assert.True(t, out.Terminal)

	final = match(t, b, 3)
	assert.Equal(t, models.MatchPlayed, final.State)
	assert.True(t, final.Forfeit)
	assert.Equal(t, "C", final.WinnerID)
	assert.Equal(t, &models.BracketResult{Score1: 0, Score2: 1}, final.Result)

	want := []models.Standing{
		{ParticipantID: "C", Position: 1},
		{ParticipantID: "A", Position: 2, Disqualified: true},
		{ParticipantID: "B", Position: 3},
		{ParticipantID: "D", Position: 3},
	}
	if diff := cmp.Diff(want, Standings(b), ignoreParticipant); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestDisqualify_BothSidesForfeit(t *testing.T) {
	b := seeded(t, models.FormatDoubleElimination, models.Settings{}, "A", "B", "C", "D", "E", "F", "G", "H")

	out, err := Disqualify(b, "B")
	require.NoError(t, err)
	assert.Empty(t, out.Eliminated)

	// D drops onto B's standing forfeit: nobody leaves the loser-tree match
	out, err = Disqualify(b, "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D"}, out.Eliminated)
	assert.Equal(t, []int{5}, matchIDs(out.NewlyReady))

	lower := match(t, b, 8)
	assert.Equal(t, models.SideLosers, lower.Side)
	assert.Equal(t, models.MatchPlayed, lower.State)
	assert.True(t, lower.Forfeit)
	assert.Nil(t, lower.Result)
	assert.Empty(t, lower.WinnerID)
	assert.Equal(t, models.SlotBye, match(t, b, 10).Slots[0].Kind)

	playOut(t, b, 0)
	standings := Standings(b)
	require.Len(t, standings, 8)
	assert.Equal(t, "A", standings[0].ParticipantID)
	// B, D and H all leave in the first loser round
	last := standings[5:]
	assert.Equal(t, "B", last[0].ParticipantID)
	assert.Equal(t, "D", last[1].ParticipantID)
	assert.Equal(t, "H", last[2].ParticipantID)
	assert.Equal(t, 6, last[0].Position)
	assert.Equal(t, 6, last[2].Position)
	assert.True(t, last[0].Disqualified)
	assert.True(t, last[1].Disqualified)
	assert.False(t, last[2].Disqualified)
}

func TestDisqualify_DoubleEliminationCarriesForfeitIntoLoserTree(t *testing.T) {
	b, err := CreateBracket("cup", models.FormatDoubleElimination, participants("A", "B", "C", "D"), models.Settings{})
	require.NoError(t, err)

	out, err := Disqualify(b, "D")
	require.NoError(t, err)
	assert.Empty(t, out.Eliminated, "D is only removed once the loser-tree match resolves")
	drop := match(t, b, 4).Slots[0]
	assert.Equal(t, models.SlotForfeit, drop.Kind)
	assert.Equal(t, "D", drop.ParticipantID)

	out = mustReport(t, b, 2, 2, 1)
	assert.Equal(t, []string{"D"}, out.Eliminated)
	assert.Equal(t, []int{3}, matchIDs(out.NewlyReady))

	lower := match(t, b, 4)
	assert.Equal(t, models.MatchPlayed, lower.State)
	assert.True(t, lower.Forfeit)
	assert.Equal(t, "C", lower.WinnerID)
	assert.Equal(t, "C", match(t, b, 5).Slots[0].ParticipantID)

	playOut(t, b, 0)
	standings := Standings(b)
	require.Len(t, standings, 4)
	assert.Equal(t, "D", standings[3].ParticipantID)
	assert.True(t, standings[3].Disqualified)
}

func TestDisqualify_GrandFinalistForfeitsWithoutReset(t *testing.T) {
	b := seeded(t, models.FormatDoubleElimination, models.Settings{}, "A", "B", "C", "D")
	mustReport(t, b, 1, 2, 0)
	mustReport(t, b, 2, 2, 0)
	mustReport(t, b, 3, 2, 0)

	// A waits in the grand final for the loser-tree champion
	_, err := Disqualify(b, "A")
	require.NoError(t, err)
	assert.Equal(t, models.SlotForfeit, match(t, b, 6).Slots[0].Kind)

	mustReport(t, b, 4, 2, 0)
	out := mustReport(t, b, 5, 0, 2)

	assert.True(t, out.Terminal)
	assert.Len(t, b.Matches, 6, "a forfeited grand final never resets")
	assert.Equal(t, "C", out.Standings[0].ParticipantID)
	assert.Equal(t, "A", out.Standings[1].ParticipantID)
	assert.True(t, out.Standings[1].Disqualified)
}

func TestDisqualify_AfterConclusion(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{}, "A", "B")
	mustReport(t, b, 1, 2, 0)
	require.True(t, IsOver(b))

	out, err := Disqualify(b, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, out.Disqualified)
	assert.True(t, out.Terminal)

	standings := Standings(b)
	assert.Equal(t, "A", standings[0].ParticipantID)
	assert.True(t, standings[0].Disqualified)
	assert.Equal(t, models.ParticipantDisqualified, standings[0].Participant.Status)
}
