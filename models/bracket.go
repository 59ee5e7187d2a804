package models

import "time"

// Seeding lists bracket slots in tree order. An empty string is a bye.
type Seeding struct {
	Size  int      `json:"size"`
	Slots []string `json:"slots"`
}

// Participants returns the number of non-bye slots.
func (s Seeding) Participants() int {
	n := 0
	for _, id := range s.Slots {
		if id != "" {
			n++
		}
	}
	return n
}

// Elimination records when a participant left the bracket. Stage grows along
// the bracket, so later eliminations finish higher.
type Elimination struct {
	ParticipantID string `json:"participant_id"`
	MatchID       int    `json:"match_id"`
	Stage         int    `json:"stage"`
	Disqualified  bool   `json:"disqualified,omitempty"`
}

// Bracket is the aggregate root: it owns its matches and seeding and
// references participants by id.
type Bracket struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Format   Format   `json:"format"`
	Settings Settings `json:"settings"`

	Participants []Participant `json:"participants"`
	Seeding      Seeding       `json:"seeding"`
	// Matches is addressed by id: Matches[i].ID == i+1.
	Matches      []Match       `json:"matches"`
	Eliminations []Elimination `json:"eliminations"`

	// ReportingClosed freezes results until the organiser reopens the bracket.
	ReportingClosed bool       `json:"reporting_closed"`
	Concluded       bool       `json:"concluded"`
	Standings       []Standing `json:"standings,omitempty"`

	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func (b *Bracket) Match(id int) (*Match, bool) {
	if id < 1 || id > len(b.Matches) {
		return nil, false
	}
	return &b.Matches[id-1], true
}

func (b *Bracket) Participant(id string) (*Participant, bool) {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i], true
		}
	}
	return nil, false
}

// ParticipantIDs returns ids in registration order.
func (b *Bracket) ParticipantIDs() []string {
	ids := make([]string, len(b.Participants))
	for i, p := range b.Participants {
		ids[i] = p.ID
	}
	return ids
}

// Clone returns a copy that can be mutated without touching b.
func (b *Bracket) Clone() *Bracket {
	c := *b
	c.Participants = append([]Participant(nil), b.Participants...)
	c.Seeding.Slots = append([]string(nil), b.Seeding.Slots...)
	c.Matches = append([]Match(nil), b.Matches...)
	c.Eliminations = append([]Elimination(nil), b.Eliminations...)
	c.Standings = append([]Standing(nil), b.Standings...)
	return &c
}
