package agent

import (
	"sync"

	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/utils"

	"github.com/pkg/errors"
)

// RandomAgent plays a uniformly random legal column.
type RandomAgent struct {
	mu  sync.Mutex
	rng utils.Rand
}

func NewRandomAgent(rng utils.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

func (a *RandomAgent) Act(obs connectx.Observation, config connectx.Config) (int, metrics.SearchMetric, error) {
	columns := legalColumns(obs, config)
	if len(columns) == 0 {
		return 0, metrics.SearchMetric{}, errors.Wrapf(ErrNoLegalMove, "step %d", obs.Step)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return columns[a.rng.Intn(len(columns))], metrics.SearchMetric{}, nil
}

// LookaheadAgent scores the position after each legal drop and plays a random best one.
type LookaheadAgent struct {
	mu  sync.Mutex
	rng utils.Rand
}

func NewLookaheadAgent(rng utils.Rand) *LookaheadAgent {
	return &LookaheadAgent{rng: rng}
}

func (a *LookaheadAgent) Act(obs connectx.Observation, config connectx.Config) (int, metrics.SearchMetric, error) {
	state, err := connectx.NewStateFromObservation(obs, config)
	if err != nil {
		return 0, metrics.SearchMetric{}, err
	}
	g := connectx.NewGame(config)
	score := connectx.Scorer(config)

	actions := g.AvailableActions(state)
	if len(actions) == 0 {
		return 0, metrics.SearchMetric{}, errors.Wrapf(ErrNoLegalMove, "step %d", obs.Step)
	}
	scores := make([]float64, len(actions))
	for i, action := range actions {
		next, err := g.Step(state, action)
		if err != nil {
			return 0, metrics.SearchMetric{}, err
		}
		scores[i] = score(next)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	best := utils.ArgBest(len(scores), func(i, j int) bool { return scores[i] > scores[j] }, a.rng)
	return actions[best].Column, metrics.SearchMetric{}, nil
}
