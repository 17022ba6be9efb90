package searcher

import (
	"connectx/experiments/metrics"
	"connectx/game"
	"connectx/gametree"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrTerminalRoot  = errors.New("cannot search from a terminal state")
	ErrZeroDepth     = errors.New("search depth must be at least 1")
	ErrNegativeDepth = errors.New("search depth must not be negative")
	ErrNoActions     = errors.New("non-terminal state has no available actions")
)

// Node property keys written by the searchers.
const (
	ScoreKey    = "score"
	WinsKey     = "wins"
	PlayoutsKey = "playouts"
	WinRateKey  = "winRate"
)

type Searcher[S game.State, A game.Action, R game.Result] interface {
	// Search builds a fresh tree from state, explored depth levels deep.
	Search(state S, depth int) (*Decision[S, A, R], error)
}

// Decision is the outcome of one search: the scored tree and its rational line.
type Decision[S game.State, A game.Action, R game.Result] struct {
	Tree     *gametree.Tree[S, A, R]
	Rational []gametree.NodeID // Root first
	Metric   metrics.SearchMetric
	rational map[gametree.NodeID]bool
}

func newDecision[S game.State, A game.Action, R game.Result](tree *gametree.Tree[S, A, R], metric metrics.SearchMetric) (*Decision[S, A, R], error) {
	path, err := tree.RationalPath(Score[S, A, R]())
	if err != nil {
		return nil, errors.Wrap(err, "failed to mark rational path")
	}
	rational := make(map[gametree.NodeID]bool, len(path))
	for _, id := range path {
		rational[id] = true
	}
	return &Decision[S, A, R]{
		Tree:     tree,
		Rational: path,
		Metric:   metric,
		rational: rational,
	}, nil
}

// Score reads the score the searchers assign to every node they evaluate.
func Score[S game.State, A game.Action, R game.Result]() gametree.ScoreFunc[S, A, R] {
	return gametree.PropertyScore[S, A, R](ScoreKey)
}

// Action picks the root's rational action, breaking ties afresh.
func (d *Decision[S, A, R]) Action() (A, error) {
	return d.Tree.RationalAction(Score[S, A, R]())
}

// IsRational reports whether the node lies on the rational line marked after the search.
func (d *Decision[S, A, R]) IsRational(id gametree.NodeID) bool {
	return d.rational[id]
}

// RootScore returns the score of the root node.
func (d *Decision[S, A, R]) RootScore() (float64, error) {
	root, err := d.Tree.Root()
	if err != nil {
		return 0, err
	}
	n, err := d.Tree.Node(root)
	if err != nil {
		return 0, err
	}
	return Score[S, A, R]()(&n)
}

type child[S game.State, R game.Result] struct {
	id       gametree.NodeID
	state    S
	result   R
	terminal bool
}

// expand grows one child per available action under id, in action order. A vanished parent
// yields no children and no error.
func expand[S game.State, A game.Action, R game.Result](g game.Game[S, A, R], tree *gametree.Tree[S, A, R], id gametree.NodeID, state S) ([]child[S, R], error) {
	actions := g.AvailableActions(state)
	if len(actions) == 0 {
		return nil, errors.Wrapf(ErrNoActions, "state %s", state.ID())
	}

	children := make([]child[S, R], 0, len(actions))
	for _, action := range actions {
		next, err := g.Step(state, action)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to step %s", action)
		}
		result, over := g.Result(next)
		childID, err := tree.Grow(id, action, next, result, over)
		if errors.Is(err, gametree.ErrNodeNotFound) {
			log.Warn().Msgf("node %s vanished during expansion, skipping its subtree", id)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		children = append(children, child[S, R]{id: childID, state: next, result: result, terminal: over})
	}
	return children, nil
}
