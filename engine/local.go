package engine

import (
	"time"

	"connectx/agent"
	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/meta"

	"github.com/rs/zerolog/log"
)

type Option func(e *LocalEngine)

// WithMaxTurns ends the game as a draw after n moves.
func WithMaxTurns(n int) Option {
	return func(e *LocalEngine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// LocalEngine plays two in-process agents against each other. The first agent holds mark 1 and
// moves first.
type LocalEngine struct {
	State    connectx.State
	config   connectx.Config
	game     *connectx.Game
	agents   []agent.Agent
	maxTurns int
}

func NewLocalEngine(agents []agent.Agent, config connectx.Config, options ...Option) *LocalEngine {
	if len(agents) != 2 {
		panic("connectx needs exactly two agents")
	}
	state, err := connectx.EmptyState(config)
	if err != nil {
		panic(err)
	}

	e := &LocalEngine{
		State:    state,
		config:   config,
		game:     connectx.NewGame(config),
		agents:   agents,
		maxTurns: meta.MAX_TURNS,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop. Boards hold absolute marks: mark 1 is game.Player. An agent that
// errors or picks an illegal column forfeits.
func (e *LocalEngine) Run() (connectx.Mark, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(connectx.PlayerMark),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}
	winner := connectx.Empty

	log.Debug().Msgf("mark %d is starting", connectx.PlayerMark)

	for turn := 1; ; turn++ {
		if result, over := e.game.Result(e.State); over {
			if w, ok := result.Winner(); ok {
				winner = connectx.MarkOf(w)
			}
			break
		}
		if turn > e.maxTurns {
			log.Warn().Msgf("stopped after %d turns without a result", e.maxTurns)
			break
		}

		mark := e.State.Next()
		obs := connectx.Observation{Board: e.State.Board(), Mark: mark, Step: e.State.Step()}
		column, searchMetric, err := e.agents[mark-1].Act(obs, e.config)
		if err != nil {
			log.Error().Err(err).Msgf("mark %d failed to act at step %d, forfeiting", mark, obs.Step)
			winner, gameMetric.InvalidPlayer = mark.Other(), int(mark)
			break
		}

		next, err := e.game.Step(e.State, connectx.NewAction(column, e.State.NextTurn()))
		if err != nil {
			log.Warn().Err(err).Msgf("mark %d played invalid column %d at step %d, forfeiting", mark, column, obs.Step)
			winner, gameMetric.InvalidPlayer = mark.Other(), int(mark)
			break
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         obs.Step,
			Player:       int(mark),
			Column:       column,
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("turn %d: mark %d plays column %d", turn, mark, column)
		e.State = next
	}

	gameMetric.Winner = int(winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	return winner, gameMetric, moveMetrics
}
