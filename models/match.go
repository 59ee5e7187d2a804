package models

type MatchState string

const (
	MatchAwaitingInputs MatchState = "awaiting_inputs"
	MatchReadyToPlay    MatchState = "ready_to_play"
	MatchPlayed         MatchState = "played"
	MatchByeResolved    MatchState = "bye_resolved"
)

// BracketSide tells which part of the bracket a match belongs to.
type BracketSide string

const (
	SideWinners      BracketSide = "winners"
	SideLosers       BracketSide = "losers"
	SideGrandFinal   BracketSide = "grand_final"
	SideBracketReset BracketSide = "bracket_reset"
)

type SlotKind string

const (
	// SlotPending waits for the outcome of the source match.
	SlotPending SlotKind = "pending"
	// SlotParticipant holds a concrete participant.
	SlotParticipant SlotKind = "participant"
	// SlotBye is empty: the opponent advances without playing.
	SlotBye SlotKind = "bye"
	// SlotForfeit holds a disqualified participant who loses as soon as the
	// other slot is resolved.
	SlotForfeit SlotKind = "forfeit"
)

type SourceOutcome string

const (
	SourceWinner SourceOutcome = "winner"
	SourceLoser  SourceOutcome = "loser"
)

// SlotSource references the match whose winner or loser fills a slot.
type SlotSource struct {
	MatchID int           `json:"match_id"`
	Outcome SourceOutcome `json:"outcome"`
}

type Slot struct {
	Kind          SlotKind    `json:"kind"`
	ParticipantID string      `json:"participant_id,omitempty"`
	Source        *SlotSource `json:"source,omitempty"`
}

// Resolved reports whether the slot no longer waits on another match.
func (s Slot) Resolved() bool {
	return s.Kind != SlotPending
}

// Occupant returns the participant sitting in the slot, if any.
func (s Slot) Occupant() (string, bool) {
	if s.Kind == SlotParticipant || s.Kind == SlotForfeit {
		return s.ParticipantID, true
	}
	return "", false
}

// BracketResult is a validated score: never 0-0, never a draw.
type BracketResult struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

// WinnerSlot returns 0 or 1.
func (r BracketResult) WinnerSlot() int {
	if r.Score1 > r.Score2 {
		return 0
	}
	return 1
}

// Reverse swaps the scores, turning a participant's own report into slot order.
func (r BracketResult) Reverse() BracketResult {
	return BracketResult{Score1: r.Score2, Score2: r.Score1}
}

// SlotRef addresses one input slot of a match.
type SlotRef struct {
	MatchID int `json:"match_id"`
	Slot    int `json:"slot"`
}

type Match struct {
	ID    int         `json:"id"`
	Side  BracketSide `json:"side"`
	Round int         `json:"round"`
	// Index is the 0-based position of the match inside its round.
	Index int        `json:"index"`
	Slots [2]Slot    `json:"slots"`
	State MatchState `json:"state"`

	Result   *BracketResult `json:"result,omitempty"`
	Forfeit  bool           `json:"forfeit,omitempty"`
	WinnerID string         `json:"winner_id,omitempty"`
	LoserID  string         `json:"loser_id,omitempty"`

	// WinnerTo is nil for the tournament final.
	WinnerTo *SlotRef `json:"winner_to,omitempty"`

	// Reports holds participant self-reports in slot order.
	Reports [2]*BracketResult `json:"reports,omitempty"`
}

// Resolved reports whether the match can no longer change.
func (m *Match) Resolved() bool {
	return m.State == MatchPlayed || m.State == MatchByeResolved
}

// SlotOf returns the slot index holding participantID, or -1.
func (m *Match) SlotOf(participantID string) int {
	for i, s := range m.Slots {
		if id, ok := s.Occupant(); ok && id == participantID {
			return i
		}
	}
	return -1
}

// Opponent returns the occupant of the other slot, if known.
func (m *Match) Opponent(participantID string) (string, bool) {
	slot := m.SlotOf(participantID)
	if slot < 0 {
		return "", false
	}
	return m.Slots[1-slot].Occupant()
}
