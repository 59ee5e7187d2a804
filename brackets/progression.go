package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// progression applies state transitions to a bracket. It is not safe for
// concurrent use; callers serialize mutations per bracket.
type progression struct {
	b       *models.Bracket
	merger  *DoubleEliminationMerger
	outcome models.Outcome
}

func newProgression(b *models.Bracket) *progression {
	p := &progression{b: b}
	if b.Format == models.FormatDoubleElimination {
		p.merger = NewDoubleEliminationMerger(b.Settings.RematchPolicy)
	}
	return p
}

// mutate runs fn on a clone of b and replaces b with the result only when fn
// succeeds. The returned outcome lists matches that became ready during fn.
func mutate(b *models.Bracket, fn func(p *progression) error) (models.Outcome, error) {
	work := b.Clone()
	wasReady := make(map[int]bool)
	for _, m := range work.Matches {
		if m.State == models.MatchReadyToPlay {
			wasReady[m.ID] = true
		}
	}

	p := newProgression(work)
	if err := fn(p); err != nil {
		return models.Outcome{}, err
	}

	out := p.outcome
	for _, m := range work.Matches {
		if m.State == models.MatchReadyToPlay && !wasReady[m.ID] {
			out.NewlyReady = append(out.NewlyReady, m)
		}
	}
	out.Terminal = work.Concluded
	if work.Concluded {
		out.Standings = append([]models.Standing(nil), work.Standings...)
	}

	*b = *work
	return out, nil
}

// ReportResult records the organiser's score for a ready match and
// propagates its winner and loser.
func ReportResult(b *models.Bracket, matchID, score1, score2 int) (models.Outcome, error) {
	if b.ReportingClosed {
		return models.Outcome{}, ErrReportingClosed
	}
	m, ok := b.Match(matchID)
	if !ok {
		return models.Outcome{}, fmt.Errorf("%w: %d", ErrUnknownMatch, matchID)
	}
	result, err := NewResultValidator(b.Settings).Validate(m, score1, score2)
	if err != nil {
		return models.Outcome{}, err
	}
	return mutate(b, func(p *progression) error {
		return p.applyResult(matchID, result.BracketResult, false)
	})
}

// applyResult marks a ready match played and moves its participants on.
func (p *progression) applyResult(id int, r models.BracketResult, forfeit bool) error {
	m := &p.b.Matches[id-1]
	if m.State != models.MatchReadyToPlay {
		return fmt.Errorf("%w: match %d is %s", ErrMatchNotReady, id, m.State)
	}
	result := r
	m.State = models.MatchPlayed
	m.Result = &result
	m.Forfeit = forfeit
	p.outcome.AffectedMatchID = id
	return p.finish(id, r.WinnerSlot())
}

// advance resolves a match whose inputs are all known. Two participants make
// it ready to play; anything else resolves it on the spot: a standing forfeit
// hands the win to the remaining participant, a bye lets them through.
func (p *progression) advance(id int) error {
	m := &p.b.Matches[id-1]
	if m.State != models.MatchAwaitingInputs || !m.Slots[0].Resolved() || !m.Slots[1].Resolved() {
		return nil
	}

	live, liveSlot, forfeit := 0, -1, false
	for i, s := range m.Slots {
		switch s.Kind {
		case models.SlotParticipant:
			live++
			liveSlot = i
		case models.SlotForfeit:
			forfeit = true
		}
	}

	if live == 2 {
		m.State = models.MatchReadyToPlay
		return nil
	}

	if forfeit {
		m.State = models.MatchPlayed
		m.Forfeit = true
		if liveSlot >= 0 {
			r := p.forfeitResult(liveSlot)
			m.Result = &r
		}
	} else {
		m.State = models.MatchByeResolved
	}
	return p.finish(id, liveSlot)
}

// finish routes the winner (winnerSlot, -1 when nobody advances) and the
// losers of a resolved match.
func (p *progression) finish(id, winnerSlot int) error {
	m := &p.b.Matches[id-1]

	winner := ""
	if winnerSlot >= 0 {
		winner, _ = m.Slots[winnerSlot].Occupant()
	}
	var losers []string
	for i, s := range m.Slots {
		if i == winnerSlot {
			continue
		}
		if pid, ok := s.Occupant(); ok {
			losers = append(losers, pid)
		}
	}
	m.WinnerID = winner
	if len(losers) > 0 {
		m.LoserID = losers[0]
	}

	// Losers first, so the bracket never concludes with an elimination missing.
	reset := false
	switch {
	case p.b.Format == models.FormatDoubleElimination && m.Side == models.SideWinners:
		if err := p.drop(id, losers); err != nil {
			return err
		}
	case m.Side == models.SideGrandFinal && p.merger.needsReset(p.b, m, winnerSlot):
		p.merger.createReset(p.b, id)
		reset = true
	default:
		for _, pid := range losers {
			p.eliminate(pid, id)
		}
	}

	m = &p.b.Matches[id-1]
	if m.WinnerTo == nil {
		if !reset {
			p.conclude(winner)
		}
		return nil
	}
	next := models.Slot{Kind: models.SlotBye}
	if winner != "" {
		next = models.Slot{Kind: models.SlotParticipant, ParticipantID: winner}
	}
	return p.fill(*m.WinnerTo, next)
}

// drop sends the loser of a winner-tree match into the loser tree. A
// disqualified loser carries a standing forfeit; without a single loser the
// target slot becomes a bye.
func (p *progression) drop(id int, losers []string) error {
	m := &p.b.Matches[id-1]
	ref, err := p.merger.route(p.b, m)
	if err != nil {
		return err
	}

	next := models.Slot{Kind: models.SlotBye}
	switch len(losers) {
	case 0:
	case 1:
		next = models.Slot{Kind: models.SlotParticipant, ParticipantID: losers[0]}
		if isDisqualified(p.b, losers[0]) {
			next.Kind = models.SlotForfeit
		}
	default:
		for _, pid := range losers {
			p.eliminate(pid, id)
		}
	}
	return p.fill(ref, next)
}

// fill resolves a pending slot, keeping its source reference.
func (p *progression) fill(ref models.SlotRef, s models.Slot) error {
	t, ok := p.b.Match(ref.MatchID)
	if !ok || ref.Slot < 0 || ref.Slot > 1 {
		return fmt.Errorf("%w: slot %d of match %d does not exist", ErrRoutingInvariantViolation, ref.Slot, ref.MatchID)
	}
	if t.Slots[ref.Slot].Kind != models.SlotPending {
		return fmt.Errorf("%w: slot %d of match %d is already filled", ErrRoutingInvariantViolation, ref.Slot, ref.MatchID)
	}
	s.Source = t.Slots[ref.Slot].Source
	t.Slots[ref.Slot] = s
	return p.advance(ref.MatchID)
}

func (p *progression) forfeitResult(winnerSlot int) models.BracketResult {
	score := p.b.Settings.ForfeitScore
	if score <= 0 {
		score = 1
	}
	if winnerSlot == 0 {
		return models.BracketResult{Score1: score}
	}
	return models.BracketResult{Score2: score}
}

func (p *progression) eliminate(pid string, matchID int) {
	dq := isDisqualified(p.b, pid)
	markEliminated(p.b, pid)
	p.b.Eliminations = append(p.b.Eliminations, models.Elimination{
		ParticipantID: pid,
		MatchID:       matchID,
		Stage:         p.stage(&p.b.Matches[matchID-1]),
		Disqualified:  dq,
	})
	p.outcome.Eliminated = append(p.outcome.Eliminated, pid)
}

// stage orders eliminations: a participant knocked out at a higher stage
// finishes ahead of one knocked out earlier.
func (p *progression) stage(m *models.Match) int {
	if p.b.Format != models.FormatDoubleElimination {
		return m.Round
	}
	lbRounds := loserRounds(p.b.Seeding.Size)
	switch m.Side {
	case models.SideLosers:
		return m.Round
	case models.SideGrandFinal:
		return lbRounds + 1
	case models.SideBracketReset:
		return lbRounds + 2
	default:
		// Winner-tree eliminations only happen to disqualified participants;
		// rank them with the loser round they would have dropped into.
		if m.Round == 1 {
			return 1
		}
		return 2 * (m.Round - 1)
	}
}

// conclude marks the bracket terminal and ranks participants: the champion
// first, then by elimination stage, ties sharing a position.
func (p *progression) conclude(champion string) {
	p.b.Concluded = true
	p.b.Standings = computeStandings(p.b, champion)
}

func computeStandings(b *models.Bracket, champion string) []models.Standing {
	const unranked = -1
	stage := make(map[string]int, len(b.Participants))
	for _, e := range b.Eliminations {
		stage[e.ParticipantID] = e.Stage
	}
	maxStage := 0
	for _, s := range stage {
		if s > maxStage {
			maxStage = s
		}
	}
	if champion != "" {
		stage[champion] = maxStage + 1
	}

	ranked := make([]models.Participant, len(b.Participants))
	copy(ranked, b.Participants)
	stageOf := func(id string) int {
		if s, ok := stage[id]; ok {
			return s
		}
		return unranked
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := stageOf(ranked[i].ID), stageOf(ranked[j].ID)
		if si != sj {
			return si > sj
		}
		return ranked[i].RegistrationOrder < ranked[j].RegistrationOrder
	})

	standings := make([]models.Standing, len(ranked))
	for i := range ranked {
		position := i + 1
		if i > 0 && stageOf(ranked[i].ID) == stageOf(ranked[i-1].ID) {
			position = standings[i-1].Position
		}
		participant := ranked[i]
		standings[i] = models.Standing{
			ParticipantID: participant.ID,
			Position:      position,
			Disqualified:  participant.IsDisqualified(),
			Participant:   &participant,
		}
	}
	return standings
}
