package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// ParticipantRegistry collects participants in registration order before a
// bracket is built.
type ParticipantRegistry struct {
	participants []models.Participant
	index        map[string]int
}

func NewParticipantRegistry() *ParticipantRegistry {
	return &ParticipantRegistry{index: make(map[string]int)}
}

// Register adds a participant. seed is the requested rank, 0 for none.
func (r *ParticipantRegistry) Register(id, name string, seed int) error {
	if id == "" {
		return ErrInvalidParticipant
	}
	if _, ok := r.index[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
	}
	if seed < 0 {
		seed = 0
	}
	r.index[id] = len(r.participants)
	r.participants = append(r.participants, models.Participant{
		ID:                id,
		Name:              name,
		Seed:              seed,
		RegistrationOrder: len(r.participants),
		Status:            models.ParticipantActive,
	})
	return nil
}

func (r *ParticipantRegistry) Get(id string) (models.Participant, error) {
	i, ok := r.index[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	return r.participants[i], nil
}

func (r *ParticipantRegistry) Len() int {
	return len(r.participants)
}

// List returns participants in registration order.
func (r *ParticipantRegistry) List() []models.Participant {
	return append([]models.Participant(nil), r.participants...)
}

// registryFrom registers participants in the given order.
func registryFrom(participants []models.Participant) (*ParticipantRegistry, error) {
	r := NewParticipantRegistry()
	for _, p := range participants {
		if err := r.Register(p.ID, p.Name, p.Seed); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// lookupParticipant returns the bracket's participant or ErrUnknownParticipant.
func lookupParticipant(b *models.Bracket, id string) (*models.Participant, error) {
	p, ok := b.Participant(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
	}
	return p, nil
}

// markEliminated moves an active participant out of the bracket. Disqualified
// participants keep their status.
func markEliminated(b *models.Bracket, id string) {
	if p, ok := b.Participant(id); ok && p.Status == models.ParticipantActive {
		p.Status = models.ParticipantEliminated
	}
}

// markDisqualified returns false when the participant was already disqualified.
func markDisqualified(b *models.Bracket, id string) bool {
	p, ok := b.Participant(id)
	if !ok || p.Status == models.ParticipantDisqualified {
		return false
	}
	p.Status = models.ParticipantDisqualified
	return true
}

func isDisqualified(b *models.Bracket, id string) bool {
	p, ok := b.Participant(id)
	return ok && p.Status == models.ParticipantDisqualified
}
