package brackets

import "errors"

var (
	// Construction.
	ErrInsufficientParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrEmptySeeding             = errors.New("seeding contains no participants")
	ErrInvalidSeeding           = errors.New("seeding does not match the registered participants")
	ErrUnsupportedFormat        = errors.New("unsupported bracket format")
	ErrUnsupportedSeedingMethod = errors.New("unsupported seeding method")
	ErrDuplicateParticipant     = errors.New("participant is already registered")
	ErrInvalidParticipant       = errors.New("participant id is required")

	// Progression.
	ErrUnknownMatch          = errors.New("match does not exist in this bracket")
	ErrMatchNotReady         = errors.New("match is not ready to be played")
	ErrInvalidResult         = errors.New("invalid match result")
	ErrBracketIsOver         = errors.New("bracket is over")
	ErrNoMatchToPlay         = errors.New("participant has no match to play")
	ErrMissingReport         = errors.New("match has no reported result to validate")
	ErrReportsDisagree       = errors.New("participants reported different results")
	ErrForbiddenDisqualified = errors.New("disqualified participants cannot report results")
	ErrReportingClosed       = errors.New("bracket does not accept match results")

	ErrUnknownParticipant = errors.New("participant is not registered in this bracket")

	// ErrRoutingInvariantViolation means the bracket topology is corrupt.
	ErrRoutingInvariantViolation = errors.New("double elimination routing invariant violated")
)
