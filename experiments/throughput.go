package experiments

import (
	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/meta"

	"github.com/rs/zerolog/log"
)

// Experiment is a named series of matches stored together.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int // Per match up
	Board    connectx.Config
	MaxTurns int
}

// DepthExperiment pairs minimax at increasing depths against the one-step lookahead baseline.
func DepthExperiment(games int) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Algorithm: "lookahead"}
	configs := []metrics.AgentConfig{
		{ID: 1, Algorithm: "minimax", Depth: 1},
		{ID: 2, Algorithm: "minimax", Depth: 2},
		{ID: 3, Algorithm: "minimax", Depth: 3},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, baseline})
	}
	return Experiment{
		Name:     "minimax_depth",
		Configs:  append(configs, baseline),
		MatchUps: matchUps,
		Games:    games,
		Board:    connectx.DefaultConfig(),
		MaxTurns: meta.MAX_TURNS,
	}
}

// ThroughputExperiment plays MCTS against itself with more and more goroutines per search, for
// the same playing strength and similar game length in each match up.
func ThroughputExperiment(games int) Experiment {
	configs := []metrics.AgentConfig{
		{ID: 1, Algorithm: "mcts", Depth: meta.MCTS_DEPTH, Playouts: meta.PLAYOUTS, Goroutines: 1},
		{ID: 2, Algorithm: "mcts", Depth: meta.MCTS_DEPTH, Playouts: meta.PLAYOUTS, Goroutines: 2},
		{ID: 3, Algorithm: "mcts", Depth: meta.MCTS_DEPTH, Playouts: meta.PLAYOUTS, Goroutines: 4},
		{ID: 4, Algorithm: "mcts", Depth: meta.MCTS_DEPTH, Playouts: meta.PLAYOUTS, Goroutines: 8},
	}
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}
	return Experiment{
		Name:     "mcts_throughput",
		Configs:  configs,
		MatchUps: matchUps,
		Games:    games,
		Board:    connectx.DefaultConfig(),
		MaxTurns: meta.MAX_TURNS,
	}
}

// Run plays every match up and stores the records under root. It returns the summaries in
// match up order and the directory holding the CSV files.
func (x Experiment) Run(root string) ([]Summary, string, error) {
	log.Info().Msgf("starting %s experiment...", x.Name)

	results := &Results{}
	summaries := make([]Summary, 0, len(x.MatchUps))
	for mi, matchUp := range x.MatchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(x.MatchUps), matchUp[0], matchUp[1])
		summary, err := RunMatch(Match{
			Agents:   matchUp,
			Games:    x.Games,
			Board:    x.Board,
			MaxTurns: x.MaxTurns,
		}, results)
		if err != nil {
			return summaries, "", err
		}
		summaries = append(summaries, summary)
		log.Info().Msgf("completed matchup %d of %d: %s", mi+1, len(x.MatchUps), summary)
	}

	log.Info().Msgf("completed %s experiment", x.Name)
	dir, err := Store(root, x.Name, x.Configs, *results)
	return summaries, dir, err
}
