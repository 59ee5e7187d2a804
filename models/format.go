package models

// Format is the bracket type. Values match the bracket_type column used by the
// storage layer.
type Format string

const (
	FormatSingleElimination Format = "SingleElimination"
	FormatDoubleElimination Format = "DoubleElimination"
)

// ValidationMode decides when participant reports validate a match on their own.
type ValidationMode string

const (
	// ValidationStrict only lets the organiser validate results.
	ValidationStrict ValidationMode = "strict"
	// ValidationFlexible validates once both participants report the same score.
	ValidationFlexible ValidationMode = "flexible"
	// ValidationLax validates on the first participant report.
	ValidationLax ValidationMode = "lax"
)

// RematchPolicy controls how winner-tree drops are ordered into the loser tree.
type RematchPolicy string

const (
	// RematchMinimize reorders drops to avoid early rematches where the topology allows it.
	RematchMinimize RematchPolicy = "minimize"
	// RematchAllow keeps the natural drop order.
	RematchAllow RematchPolicy = "allow"
)

// SeedingMethod decides how automatic seeding orders participants.
type SeedingMethod string

const (
	// SeedingStrict ranks participants by requested seed, then registration order.
	SeedingStrict SeedingMethod = "strict"
	// SeedingRandom shuffles participants before placing them.
	SeedingRandom SeedingMethod = "random"
)

// Settings are the per-bracket rules fixed at creation time.
type Settings struct {
	// MaxScore bounds a single side's score. Zero means unconstrained.
	MaxScore       int            `json:"max_score,omitempty"`
	ForfeitScore   int            `json:"forfeit_score"`
	ValidationMode ValidationMode `json:"validation_mode"`
	RematchPolicy  RematchPolicy  `json:"rematch_policy"`
	SeedingMethod  SeedingMethod  `json:"seeding_method"`
}
