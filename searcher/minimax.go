package searcher

import (
	"slices"

	"connectx/game"
	"connectx/gametree"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Minimax is a depth-bounded full-width search without pruning. Every explored state becomes a
// tree node annotated with its minimax score.
type Minimax[S game.State, A game.Action, R game.Result] struct {
	game   game.Game[S, A, R]
	scorer game.Scorer[S]
	settings
}

func NewMinimax[S game.State, A game.Action, R game.Result](g game.Game[S, A, R], scorer game.Scorer[S], options ...Option) *Minimax[S, A, R] {
	if g == nil || scorer == nil {
		panic("minimax needs a game and a scorer")
	}
	return &Minimax[S, A, R]{
		game:     g,
		scorer:   scorer,
		settings: newSettings(options),
	}
}

func (m *Minimax[S, A, R]) Search(state S, depth int) (*Decision[S, A, R], error) {
	if depth < 0 {
		return nil, errors.Wrapf(ErrNegativeDepth, "depth %d", depth)
	}
	if _, over := m.game.Result(state); over {
		return nil, errors.Wrapf(ErrTerminalRoot, "state %s", state.ID())
	}

	m.metrics.Start("minimax", m.goroutines, depth)
	tree := gametree.New[S, A, R](m.newTreeOptions()...)
	var none R
	root, err := tree.AddRoot(state, none, false)
	if err != nil {
		return nil, err
	}
	m.metrics.AddNodes(1)

	score, err := m.evaluate(tree, root, state, false, depth, m.goroutines > 1)
	if err != nil {
		return nil, err
	}

	metric := m.metrics.Complete()
	log.Debug().Msgf("minimax scored %.1f at depth %d over %d nodes", score, depth, tree.Len())
	return newDecision(tree, metric)
}

// evaluate scores the node and stores the score on it. Terminal and cutoff nodes are scored by
// the scorer; inner nodes take the max over children when Player moves and the min otherwise.
func (m *Minimax[S, A, R]) evaluate(tree *gametree.Tree[S, A, R], id gametree.NodeID, state S, terminal bool, depth int, parallel bool) (float64, error) {
	var score float64
	if terminal || depth == 0 {
		score = m.scorer(state)
	} else {
		children, err := expand(m.game, tree, id, state)
		if err != nil {
			return 0, err
		}
		m.metrics.AddNodes(len(children))

		scores := make([]float64, len(children))
		if parallel {
			err = m.evaluateParallel(tree, children, depth-1, scores)
		} else {
			for i, c := range children {
				if scores[i], err = m.evaluate(tree, c.id, c.state, c.terminal, depth-1, false); err != nil {
					break
				}
			}
		}
		if err != nil {
			return 0, err
		}

		switch {
		case len(scores) == 0: // Subtree vanished
			score = m.scorer(state)
		case state.NextTurn() == game.Opponent:
			score = slices.Min(scores)
		default:
			score = slices.Max(scores)
		}
	}

	err := tree.AssignProperty(id, ScoreKey, score)
	if errors.Is(err, gametree.ErrNodeNotFound) {
		log.Warn().Msgf("node %s vanished before scoring", id)
		return score, nil
	}
	return score, err
}

func (m *Minimax[S, A, R]) evaluateParallel(tree *gametree.Tree[S, A, R], children []child[S, R], depth int, scores []float64) error {
	var g errgroup.Group
	g.SetLimit(m.goroutines)
	for i, c := range children {
		i, c := i, c
		g.Go(func() error {
			score, err := m.evaluate(tree, c.id, c.state, c.terminal, depth, false)
			scores[i] = score
			return err
		})
	}
	return g.Wait()
}
