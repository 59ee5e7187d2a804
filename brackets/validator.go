package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// ValidatedResult is a result accepted for a ready match.
type ValidatedResult struct {
	models.BracketResult
	WinnerSlot int
	LoserSlot  int
}

// ResultValidator checks reported scores. MaxScore 0 means unconstrained.
type ResultValidator struct {
	MaxScore int
}

func NewResultValidator(settings models.Settings) ResultValidator {
	return ResultValidator{MaxScore: settings.MaxScore}
}

// Validate does not modify m.
func (v ResultValidator) Validate(m *models.Match, score1, score2 int) (ValidatedResult, error) {
	if m.State != models.MatchReadyToPlay {
		return ValidatedResult{}, fmt.Errorf("%w: match %d is %s", ErrMatchNotReady, m.ID, m.State)
	}
	if err := v.CheckScores(score1, score2); err != nil {
		return ValidatedResult{}, err
	}
	r := models.BracketResult{Score1: score1, Score2: score2}
	winner := r.WinnerSlot()
	return ValidatedResult{BracketResult: r, WinnerSlot: winner, LoserSlot: 1 - winner}, nil
}

// CheckScores applies the score rules without looking at a match.
func (v ResultValidator) CheckScores(score1, score2 int) error {
	switch {
	case score1 < 0 || score2 < 0:
		return fmt.Errorf("%w: negative score %d-%d", ErrInvalidResult, score1, score2)
	case score1 == score2:
		return fmt.Errorf("%w: %d-%d has no winner", ErrInvalidResult, score1, score2)
	case v.MaxScore > 0 && (score1 > v.MaxScore || score2 > v.MaxScore):
		return fmt.Errorf("%w: %d-%d exceeds the maximum score %d", ErrInvalidResult, score1, score2, v.MaxScore)
	}
	return nil
}
