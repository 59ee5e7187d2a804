package models

// ParticipantStatus tracks whether a participant can still play in a bracket.
type ParticipantStatus string

const (
	ParticipantActive       ParticipantStatus = "active"
	ParticipantEliminated   ParticipantStatus = "eliminated"
	ParticipantDisqualified ParticipantStatus = "disqualified"
)

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Seed is the requested rank (1 = strongest). Zero means unranked.
	Seed int `json:"seed,omitempty"`
	// RegistrationOrder breaks ties between equal seeds.
	RegistrationOrder int               `json:"registration_order"`
	Status            ParticipantStatus `json:"status"`
}

func (p Participant) IsDisqualified() bool {
	return p.Status == ParticipantDisqualified
}
