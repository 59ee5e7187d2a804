package brackets

import (
	"github.com/Dosada05/bracket-engine/models"
)

// Disqualify removes a participant from future play. A ready match is
// forfeited at once; a match still waiting for its other input keeps a
// standing forfeit that resolves as soon as the opponent is known.
// Disqualifying twice is a no-op.
func Disqualify(b *models.Bracket, participantID string) (models.Outcome, error) {
	if _, err := lookupParticipant(b, participantID); err != nil {
		return models.Outcome{}, err
	}
	if isDisqualified(b, participantID) {
		return models.Outcome{}, nil
	}
	return mutate(b, func(p *progression) error {
		return p.disqualify(participantID)
	})
}

func (p *progression) disqualify(pid string) error {
	markDisqualified(p.b, pid)
	p.outcome.Disqualified = append(p.outcome.Disqualified, pid)

	for i := range p.b.Eliminations {
		if p.b.Eliminations[i].ParticipantID == pid {
			p.b.Eliminations[i].Disqualified = true
		}
	}
	if p.b.Concluded {
		for i := range p.b.Standings {
			if p.b.Standings[i].ParticipantID == pid {
				p.b.Standings[i].Disqualified = true
				if participant, ok := p.b.Participant(pid); ok {
					copied := *participant
					p.b.Standings[i].Participant = &copied
				}
			}
		}
		return nil
	}

	for id := 1; id <= len(p.b.Matches); id++ {
		m := &p.b.Matches[id-1]
		slot := m.SlotOf(pid)
		if slot < 0 {
			continue
		}
		switch m.State {
		case models.MatchReadyToPlay:
			if err := p.applyResult(id, p.forfeitResult(1-slot), true); err != nil {
				return err
			}
		case models.MatchAwaitingInputs:
			if m.Slots[slot].Kind == models.SlotParticipant {
				m.Slots[slot].Kind = models.SlotForfeit
				if err := p.advance(id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
