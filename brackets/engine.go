package brackets

import (
	"github.com/google/uuid"

	"github.com/Dosada05/bracket-engine/models"
)

// CreateBracket seeds the participants with the settings' seeding method and
// builds a bracket of the given format. Participants are listed in
// registration order.
func CreateBracket(name string, format models.Format, participants []models.Participant, settings models.Settings) (*models.Bracket, error) {
	seeding, err := SeedWith(participants, settings.SeedingMethod, nil)
	if err != nil {
		return nil, err
	}
	return CreateSeededBracket(name, format, participants, seeding, settings)
}

// CreateSeededBracket builds a bracket from a seeding chosen by the caller.
func CreateSeededBracket(name string, format models.Format, participants []models.Participant, seeding models.Seeding, settings models.Settings) (*models.Bracket, error) {
	generator, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}
	b, err := generator.GenerateBracket(GenerateBracketParams{
		Name:         name,
		Participants: participants,
		Seeding:      seeding,
		Settings:     settings,
	})
	if err != nil {
		return nil, err
	}
	b.ID = uuid.NewString()
	return b, nil
}
