package agent

import (
	"strings"

	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/utils"

	"github.com/pkg/errors"
)

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrNoLegalMove      = errors.New("no legal move")
)

const (
	Minimax   = "minimax"
	MCTS      = "mcts"
	Lookahead = "lookahead"
	Random    = "random"
)

type Agent interface {
	// Act returns the column to play and the metrics of the search behind it (if any)
	Act(obs connectx.Observation, config connectx.Config) (int, metrics.SearchMetric, error)
}

// New builds the agent described by config. Search agents dump their trees under outdir unless
// it is empty.
func New(config metrics.AgentConfig, outdir string) (Agent, error) {
	rng := utils.DefaultRand()
	if config.Seed != 0 {
		rng = utils.NewRand(config.Seed)
	}

	switch strings.ToLower(config.Algorithm) {
	case Minimax, MCTS:
		return NewSearchAgent(config, outdir), nil
	case Lookahead:
		return NewLookaheadAgent(rng), nil
	case Random:
		return NewRandomAgent(rng), nil
	default:
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", config.Algorithm)
	}
}

// legalColumns lists the columns whose top cell is empty.
func legalColumns(obs connectx.Observation, config connectx.Config) []int {
	columns := []int{}
	for column := 0; column < config.Columns && column < len(obs.Board); column++ {
		if obs.Board[column] == 0 {
			columns = append(columns, column)
		}
	}
	return columns
}
