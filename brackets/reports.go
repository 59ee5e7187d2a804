package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// ReportFromParticipant records a participant's own score for their current
// ready match. Depending on the bracket's validation mode the report may
// validate the match immediately.
func ReportFromParticipant(b *models.Bracket, participantID string, ownScore, opponentScore int) (models.Outcome, error) {
	if _, err := lookupParticipant(b, participantID); err != nil {
		return models.Outcome{}, err
	}
	if isDisqualified(b, participantID) {
		return models.Outcome{}, fmt.Errorf("%w: %s", ErrForbiddenDisqualified, participantID)
	}
	if b.Concluded {
		return models.Outcome{}, ErrBracketIsOver
	}
	if b.ReportingClosed {
		return models.Outcome{}, ErrReportingClosed
	}
	m, ok := readyMatchOf(b, participantID)
	if !ok {
		return models.Outcome{}, fmt.Errorf("%w: %s", ErrNoMatchToPlay, participantID)
	}
	if err := NewResultValidator(b.Settings).CheckScores(ownScore, opponentScore); err != nil {
		return models.Outcome{}, err
	}

	slot := m.SlotOf(participantID)
	report := models.BracketResult{Score1: ownScore, Score2: opponentScore}
	if slot == 1 {
		report = report.Reverse()
	}
	matchID := m.ID

	return mutate(b, func(p *progression) error {
		m := &p.b.Matches[matchID-1]
		m.Reports[slot] = &report
		p.outcome.AffectedMatchID = matchID

		switch p.b.Settings.ValidationMode {
		case models.ValidationLax:
			return p.applyResult(matchID, report, false)
		case models.ValidationFlexible:
			other := m.Reports[1-slot]
			if other != nil && *other == report {
				return p.applyResult(matchID, report, false)
			}
		}
		return nil
	})
}

// ValidateMatch lets the organiser confirm the participants' reports for a
// ready match. A single report is enough; two reports must agree.
func ValidateMatch(b *models.Bracket, matchID int) (models.Outcome, error) {
	if b.ReportingClosed {
		return models.Outcome{}, ErrReportingClosed
	}
	m, ok := b.Match(matchID)
	if !ok {
		return models.Outcome{}, fmt.Errorf("%w: %d", ErrUnknownMatch, matchID)
	}
	if m.State != models.MatchReadyToPlay {
		return models.Outcome{}, fmt.Errorf("%w: match %d is %s", ErrMatchNotReady, matchID, m.State)
	}

	r0, r1 := m.Reports[0], m.Reports[1]
	var report models.BracketResult
	switch {
	case r0 == nil && r1 == nil:
		return models.Outcome{}, fmt.Errorf("%w: %d", ErrMissingReport, matchID)
	case r0 != nil && r1 != nil && *r0 != *r1:
		return models.Outcome{}, fmt.Errorf("%w: %d-%d against %d-%d", ErrReportsDisagree, r0.Score1, r0.Score2, r1.Score1, r1.Score2)
	case r0 != nil:
		report = *r0
	default:
		report = *r1
	}

	result, err := NewResultValidator(b.Settings).Validate(m, report.Score1, report.Score2)
	if err != nil {
		return models.Outcome{}, err
	}
	return mutate(b, func(p *progression) error {
		return p.applyResult(matchID, result.BracketResult, false)
	})
}

func readyMatchOf(b *models.Bracket, participantID string) (*models.Match, bool) {
	for i := range b.Matches {
		m := &b.Matches[i]
		if m.State == models.MatchReadyToPlay && m.SlotOf(participantID) >= 0 {
			return m, true
		}
	}
	return nil, false
}
