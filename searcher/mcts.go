package searcher

import (
	"fmt"

	"connectx/game"
	"connectx/gametree"
	"connectx/utils"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MCTS expands a tree breadth-first to a fixed depth, runs random playouts from every frontier
// node and backs the outcomes up to the root. A node's score is its win rate for Player.
type MCTS[S game.State, A game.Action, R game.Result] struct {
	game   game.Game[S, A, R]
	scorer game.Scorer[S]
	settings
}

// NewMCTS creates the search. Playout outcomes come from the sign of scorer on the final state
// when scorer is given, and from the terminal result's winner otherwise.
func NewMCTS[S game.State, A game.Action, R game.Result](g game.Game[S, A, R], scorer game.Scorer[S], options ...Option) *MCTS[S, A, R] {
	if g == nil {
		panic("mcts needs a game")
	}
	return &MCTS[S, A, R]{
		game:     g,
		scorer:   scorer,
		settings: newSettings(options),
	}
}

type stats struct {
	wins     float64
	playouts int
}

func (m *MCTS[S, A, R]) Search(state S, depth int) (*Decision[S, A, R], error) {
	if depth <= 0 {
		return nil, errors.Wrapf(ErrZeroDepth, "depth %d", depth)
	}
	if _, over := m.game.Result(state); over {
		return nil, errors.Wrapf(ErrTerminalRoot, "state %s", state.ID())
	}

	m.metrics.Start("mcts", m.goroutines, depth)
	tree := gametree.New[S, A, R](m.newTreeOptions()...)
	var none R
	root, err := tree.AddRoot(state, none, false)
	if err != nil {
		return nil, err
	}
	m.metrics.AddNodes(1)

	frontier, err := m.expandTree(tree, child[S, R]{id: root, state: state}, depth)
	if err != nil {
		return nil, err
	}
	wins, err := m.playoutAll(frontier)
	if err != nil {
		return nil, err
	}
	if err := m.backup(tree, frontier, wins); err != nil {
		return nil, err
	}

	metric := m.metrics.Complete()
	log.Debug().Msgf("mcts ran %d playouts from %d frontier nodes over %d nodes", len(frontier)*m.playouts, len(frontier), tree.Len())
	return newDecision(tree, metric)
}

// expandTree expands every non-terminal node level by level for depth levels. Terminal nodes are
// carried forward unexpanded, so the returned frontier holds the last level plus every terminal
// node met on the way.
func (m *MCTS[S, A, R]) expandTree(tree *gametree.Tree[S, A, R], root child[S, R], depth int) ([]child[S, R], error) {
	level := []child[S, R]{root}
	for d := 0; d < depth; d++ {
		next := make([]child[S, R], 0, len(level))
		for _, node := range level {
			if node.terminal {
				next = append(next, node)
				continue
			}
			children, err := expand(m.game, tree, node.id, node.state)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 { // Vanished
				continue
			}
			m.metrics.AddNodes(len(children))
			next = append(next, children...)
		}
		level = next
	}
	return level, nil
}

// playoutAll returns the summed outcome of the playouts from each frontier node.
func (m *MCTS[S, A, R]) playoutAll(frontier []child[S, R]) ([]float64, error) {
	wins := make([]float64, len(frontier))

	var g errgroup.Group
	g.SetLimit(m.goroutines)
	for i, node := range frontier {
		i, node := i, node
		g.Go(func() error {
			rng := m.rand(i)
			for p := 0; p < m.playouts; p++ {
				outcome, err := m.playout(node.state, node.result, node.terminal, rng)
				if err != nil {
					return err
				}
				wins[i] += outcome
			}
			m.metrics.AddPlayouts(m.playouts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return wins, nil
}

// playout plays uniformly random actions until the game ends and returns the outcome in [0, 1]
// for Player.
func (m *MCTS[S, A, R]) playout(state S, result R, over bool, rng utils.Rand) (float64, error) {
	for !over {
		actions := m.game.AvailableActions(state)
		if len(actions) == 0 {
			return 0, errors.Wrapf(ErrNoActions, "state %s", state.ID())
		}
		action := actions[rng.Intn(len(actions))] // Random rollout policy
		next, err := m.game.Step(state, action)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to step %s", action)
		}
		state = next
		result, over = m.game.Result(state)
	}

	if m.scorer != nil {
		return game.Outcome(m.scorer(state)), nil
	}
	return game.OutcomeOf(result), nil
}

// backup adds each frontier node's playouts to the node and all its ancestors, then stores the
// statistics and the resulting win rate on every touched node.
func (m *MCTS[S, A, R]) backup(tree *gametree.Tree[S, A, R], frontier []child[S, R], wins []float64) error {
	all := map[gametree.NodeID]*stats{}
	for i, node := range frontier {
		id := node.id
		for id != "" {
			s, ok := all[id]
			if !ok {
				s = &stats{}
				all[id] = s
			}
			s.wins += wins[i]
			s.playouts += m.playouts

			parent, err := tree.Parent(id)
			if err != nil {
				log.Warn().Msgf("node %s vanished during backup", id)
				break
			}
			id = parent
		}
	}

	for id, s := range all {
		properties := map[string]any{
			WinsKey:     s.wins,
			PlayoutsKey: s.playouts,
			WinRateKey:  fmt.Sprintf("%g/%d", s.wins, s.playouts),
			ScoreKey:    s.wins / float64(s.playouts),
		}
		for key, value := range properties {
			if err := tree.AssignProperty(id, key, value); err != nil && !errors.Is(err, gametree.ErrNodeNotFound) {
				return err
			}
		}
	}
	return nil
}
