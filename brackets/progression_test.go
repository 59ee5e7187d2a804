package brackets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-engine/models"
)

var ignoreParticipant = cmpopts.IgnoreFields(models.Standing{}, "Participant")

func TestSingleElimination_RoundTrip(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{}, "A", "B", "C", "D")
	assert.Equal(t, []int{1, 2}, matchIDs(ListReadyMatches(b)))

	out := mustReport(t, b, 1, 2, 0)
	assert.Equal(t, []string{"B"}, out.Eliminated)
	assert.Empty(t, out.NewlyReady)
	assert.False(t, out.Terminal)
	assert.Nil(t, Standings(b))

	out = mustReport(t, b, 2, 2, 1)
	assert.Equal(t, []string{"D"}, out.Eliminated)
	assert.Equal(t, []int{3}, matchIDs(out.NewlyReady))

	out = mustReport(t, b, 3, 2, 0)
	assert.Equal(t, []string{"C"}, out.Eliminated)
	assert.True(t, out.Terminal)
	assert.True(t, IsOver(b))
	assert.Empty(t, ListReadyMatches(b))

	want := []models.Standing{
		{ParticipantID: "A", Position: 1},
		{ParticipantID: "C", Position: 2},
		{ParticipantID: "B", Position: 3},
		{ParticipantID: "D", Position: 3},
	}
	if diff := cmp.Diff(want, Standings(b), ignoreParticipant); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, out.Standings, ignoreParticipant); diff != "" {
		t.Errorf("outcome standings mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, out.Standings[0].Participant)
	assert.Equal(t, "Player A", out.Standings[0].Participant.Name)

	p, _ := b.Participant("C")
	assert.Equal(t, models.ParticipantEliminated, p.Status)
	p, _ = b.Participant("A")
	assert.Equal(t, models.ParticipantActive, p.Status)
}

func TestDoubleElimination_DropScenario(t *testing.T) {
	b, err := CreateBracket("cup", models.FormatDoubleElimination, participants("A", "B", "C", "D"), models.Settings{})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "D", "B", "C"}, b.Seeding.Slots)

	// D loses in the winner tree and drops instead of leaving
	out := mustReport(t, b, 1, 2, 0)
	assert.Empty(t, out.Eliminated)
	assert.Equal(t, "D", match(t, b, 4).Slots[0].ParticipantID)

	out = mustReport(t, b, 2, 2, 1)
	assert.Empty(t, out.Eliminated)
	assert.Equal(t, []int{3, 4}, matchIDs(out.NewlyReady))

	out = mustReport(t, b, 4, 2, 0)
	assert.Equal(t, []string{"C"}, out.Eliminated)
	assert.Equal(t, models.MatchAwaitingInputs, match(t, b, 5).State)

	// B loses the winner-tree final and faces D in the loser final
	out = mustReport(t, b, 3, 2, 1)
	assert.Empty(t, out.Eliminated)
	assert.Equal(t, []int{5}, matchIDs(out.NewlyReady))
	assert.Equal(t, "B", match(t, b, 5).Slots[1].ParticipantID)

	out = mustReport(t, b, 5, 0, 2)
	assert.Equal(t, []string{"D"}, out.Eliminated)
	assert.Equal(t, []int{6}, matchIDs(out.NewlyReady))

	// the loser-tree champion takes the grand final and forces a reset
	out = mustReport(t, b, 6, 1, 3)
	assert.Empty(t, out.Eliminated)
	assert.False(t, out.Terminal)
	require.Len(t, b.Matches, 7)
	reset := match(t, b, 7)
	assert.Equal(t, models.SideBracketReset, reset.Side)
	assert.Equal(t, models.MatchReadyToPlay, reset.State)
	assert.Equal(t, "A", reset.Slots[0].ParticipantID)
	assert.Equal(t, "B", reset.Slots[1].ParticipantID)
	assert.Equal(t, []int{7}, matchIDs(out.NewlyReady))

	out = mustReport(t, b, 7, 2, 1)
	assert.Equal(t, []string{"B"}, out.Eliminated)
	assert.True(t, out.Terminal)

	want := []models.Standing{
		{ParticipantID: "A", Position: 1},
		{ParticipantID: "B", Position: 2},
		{ParticipantID: "D", Position: 3},
		{ParticipantID: "C", Position: 4},
	}
	if diff := cmp.Diff(want, Standings(b), ignoreParticipant); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestDoubleElimination_GrandFinalWithoutReset(t *testing.T) {
	b := seeded(t, models.FormatDoubleElimination, models.Settings{}, "A", "B", "C", "D")
	mustReport(t, b, 1, 2, 0)
	mustReport(t, b, 2, 2, 0)
	mustReport(t, b, 3, 2, 0)
	mustReport(t, b, 4, 2, 0)
	mustReport(t, b, 5, 2, 0)

	out := mustReport(t, b, 6, 3, 1)
	assert.True(t, out.Terminal)
	assert.Len(t, b.Matches, 6)
	assert.Equal(t, "A", out.Standings[0].ParticipantID)
}

func TestReportResult_Errors(t *testing.T) {
	b := seeded(t, models.FormatSingleElimination, models.Settings{MaxScore: 3}, "A", "B", "C", "D")
	before := b.Clone()

	cases := []struct {
		name           string
		matchID        int
		score1, score2 int
		want           error
	}{
		{"zero zero", 1, 0, 0, ErrInvalidResult},
		{"draw", 1, 2, 2, ErrInvalidResult},
		{"negative", 1, -1, 0, ErrInvalidResult},
		{"above max score", 1, 4, 0, ErrInvalidResult},
		{"awaiting inputs", 3, 2, 0, ErrMatchNotReady},
		{"unknown match", 99, 2, 0, ErrUnknownMatch},
		{"match zero", 0, 2, 0, ErrUnknownMatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReportResult(b, tc.matchID, tc.score1, tc.score2)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, models.MatchReadyToPlay, match(t, b, 1).State)
			if diff := cmp.Diff(before, b); diff != "" {
				t.Errorf("bracket changed (-before +after):\n%s", diff)
			}
		})
	}

	mustReport(t, b, 1, 3, 0)
	_, err := ReportResult(b, 1, 3, 0)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestReportResult_RoutingViolationLeavesBracketUnchanged(t *testing.T) {
	b := seeded(t, models.FormatDoubleElimination, models.Settings{}, "A", "B", "C", "D")
	// corrupt the loser tree: its first slot no longer waits on match 1
	b.Matches[3].Slots[0].Source = &models.SlotSource{MatchID: 2, Outcome: models.SourceLoser}
	before := b.Clone()

	_, err := ReportResult(b, 1, 2, 0)
	require.ErrorIs(t, err, ErrRoutingInvariantViolation)
	if diff := cmp.Diff(before, b); diff != "" {
		t.Errorf("bracket changed (-before +after):\n%s", diff)
	}
}

func TestResultValidator(t *testing.T) {
	ready := &models.Match{ID: 1, State: models.MatchReadyToPlay}
	v := ResultValidator{}

	r, err := v.Validate(ready, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, r.WinnerSlot)
	assert.Equal(t, 0, r.LoserSlot)
	assert.Equal(t, models.BracketResult{Score1: 0, Score2: 2}, r.BracketResult)

	_, err = v.Validate(ready, 100, 0)
	assert.NoError(t, err, "zero max score is unconstrained")

	_, err = ResultValidator{MaxScore: 2}.Validate(ready, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidResult)

	_, err = v.Validate(&models.Match{ID: 2, State: models.MatchPlayed}, 2, 0)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}
