package experiments

import (
	"fmt"
	"path/filepath"

	"connectx/agent"
	"connectx/connectx"
	"connectx/engine"
	"connectx/experiments/metrics"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Match pits two agent configs against each other for a number of games, alternating who moves
// first.
type Match struct {
	Agents   [2]metrics.AgentConfig
	Games    int
	Board    connectx.Config
	MaxTurns int
	TreeDir  string // Search agents dump their trees under <TreeDir>/game_<n> when set
}

// Summary tallies a match from the perspective of Agents[0] and Agents[1].
type Summary struct {
	Games   int
	Wins    [2]int
	Draws   int
	Invalid [2]int // Games forfeited by an invalid play
	Final   connectx.State
}

func (s Summary) WinPercentage(i int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[i]) / float64(s.Games)
}

func (s Summary) String() string {
	return fmt.Sprintf("agent 1 win percentage: %.2f, agent 2 win percentage: %.2f, draws: %d, invalid plays by agent 1: %d, invalid plays by agent 2: %d",
		s.WinPercentage(0), s.WinPercentage(1), s.Draws, s.Invalid[0], s.Invalid[1])
}

// Results collects the records of every game played.
type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// RunMatch plays the match and appends the records to results, which may be nil. Agents[0] moves
// first in the first half of the games (rounded up) and second in the rest.
func RunMatch(match Match, results *Results) (Summary, error) {
	summary := Summary{}
	if err := match.Board.Validate(); err != nil {
		return summary, err
	}
	if results == nil {
		results = &Results{}
	}
	for i := 0; i < match.Games; i++ {
		swapped := i >= (match.Games+1)/2
		first, second := match.Agents[0], match.Agents[1]
		if swapped {
			first, second = second, first
		}

		log.Info().Msgf("starting game %d of %d between agent %d and agent %d...", i+1, match.Games, first.ID, second.ID)
		gameMetric, final, err := runGame(match, first, second, results)
		if err != nil {
			return summary, err
		}

		// Index into match.Agents of the agent holding mark m
		side := func(m int) int {
			if (connectx.Mark(m) == connectx.PlayerMark) != swapped {
				return 0
			}
			return 1
		}
		summary.Games++
		summary.Final = final
		if gameMetric.Winner == int(connectx.Empty) {
			summary.Draws++
		} else {
			summary.Wins[side(gameMetric.Winner)]++
		}
		if gameMetric.InvalidPlayer != 0 {
			summary.Invalid[side(gameMetric.InvalidPlayer)]++
		}
		log.Info().Msgf("completed game %d of %d with winner mark %d", i+1, match.Games, gameMetric.Winner)
	}
	return summary, nil
}

func runGame(match Match, first, second metrics.AgentConfig, results *Results) (metrics.GameMetric, connectx.State, error) {
	id := len(results.Games) + 1
	treeDir := ""
	if match.TreeDir != "" {
		treeDir = filepath.Join(match.TreeDir, fmt.Sprintf("game_%d", id))
	}

	agents := make([]agent.Agent, 0, 2)
	for _, config := range []metrics.AgentConfig{first, second} {
		a, err := agent.New(config, treeDir)
		if err != nil {
			return metrics.GameMetric{}, connectx.State{}, errors.Wrapf(err, "agent %d", config.ID)
		}
		agents = append(agents, a)
	}

	e := engine.NewLocalEngine(agents, match.Board, engine.WithMaxTurns(match.MaxTurns))
	_, gameMetric, moveMetrics := e.Run()

	results.Games = append(results.Games, metrics.GameRecord{
		ID:         id,
		Agent1:     first.ID,
		Agent2:     second.ID,
		GameMetric: gameMetric,
	})
	for _, mm := range moveMetrics {
		results.Moves = append(results.Moves, metrics.MoveRecord{
			Game:       id,
			MoveMetric: mm,
		})
	}
	return gameMetric, e.State, nil
}

// Store writes the agent configs and the results as CSV files under <root>/<name>/<timestamp>
// and returns that directory.
func Store(root, name string, configs []metrics.AgentConfig, results Results) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", errors.Wrap(err, "failed to create experiment writer")
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", errors.Wrap(err, "failed to store agent configs")
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", errors.Wrap(err, "failed to write game records")
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", errors.Wrap(err, "failed to write move records")
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
