package models

type Role string

const (
	// RoleOrganiser manages brackets: creates them, reports and validates results.
	RoleOrganiser Role = "organiser"
	// RolePlayer may only report its own matches in one bracket.
	RolePlayer Role = "player"
)

// Principal is the authenticated caller of an API request.
type Principal struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
	// BracketID and ParticipantID are set for player tokens only.
	BracketID     string `json:"bracket_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
}

func (p Principal) IsOrganiser() bool {
	return p.Role == RoleOrganiser
}

// CanReportFor reports whether the principal may report on behalf of a
// participant of the given bracket.
func (p Principal) CanReportFor(bracketID, participantID string) bool {
	if p.IsOrganiser() {
		return true
	}
	return p.Role == RolePlayer && p.BracketID == bracketID && p.ParticipantID == participantID
}
