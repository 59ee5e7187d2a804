package brackets

import "github.com/Dosada05/bracket-engine/models"

// CloseReporting stops the bracket from accepting results until it is
// reopened. Disqualifications still apply. Closing twice is a no-op.
func CloseReporting(b *models.Bracket) (models.Outcome, error) {
	return setReporting(b, true)
}

// OpenReporting lets a closed bracket accept results again.
func OpenReporting(b *models.Bracket) (models.Outcome, error) {
	return setReporting(b, false)
}

func setReporting(b *models.Bracket, closed bool) (models.Outcome, error) {
	if b.Concluded {
		return models.Outcome{}, ErrBracketIsOver
	}
	if b.ReportingClosed == closed {
		return models.Outcome{}, nil
	}
	b.ReportingClosed = closed
	return models.Outcome{ReportingChanged: true}, nil
}
