package brackets

import (
	"github.com/Dosada05/bracket-engine/models"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return string(models.FormatSingleElimination)
}

// GenerateBracket builds one binary tree from the seeding. First-round matches
// take adjacent slots; a bye resolves its match immediately.
func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*models.Bracket, error) {
	b, err := newBracket(models.FormatSingleElimination, params)
	if err != nil {
		return nil, err
	}

	buildWinnerTree(b)

	if err := settle(b); err != nil {
		return nil, err
	}
	return b, nil
}
