package models

// Standing is a participant's finishing position. Participants eliminated at
// the same stage share a position.
type Standing struct {
	ParticipantID string `json:"participant_id"`
	Position      int    `json:"position"`
	Disqualified  bool   `json:"disqualified,omitempty"`

	Participant *Participant `json:"participant,omitempty"`
}

// Outcome summarises what a single mutation changed.
type Outcome struct {
	NewlyReady      []Match    `json:"newly_ready"`
	Eliminated      []string   `json:"eliminated"`
	Disqualified    []string   `json:"disqualified,omitempty"`
	Terminal        bool       `json:"terminal"`
	Standings       []Standing `json:"standings,omitempty"`
	AffectedMatchID int        `json:"affected_match_id,omitempty"`

	// ReportingChanged is set when the bracket was closed or reopened.
	ReportingChanged bool `json:"reporting_changed,omitempty"`
}

// Empty reports whether nothing changed.
func (o *Outcome) Empty() bool {
	return len(o.NewlyReady) == 0 && len(o.Eliminated) == 0 && len(o.Disqualified) == 0 && !o.Terminal && !o.ReportingChanged
}
