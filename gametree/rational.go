package gametree

import (
	"connectx/game"
	"connectx/utils"

	"github.com/pkg/errors"
)

var ErrNoScore = errors.New("node has no score")

// ScoreFunc scores a node for rational path selection. The node must be treated as read-only.
type ScoreFunc[S game.State, A game.Action, R game.Result] func(n *Node[S, A, R]) (float64, error)

// PropertyScore reads a float64 score stored under key.
func PropertyScore[S game.State, A game.Action, R game.Result](key string) ScoreFunc[S, A, R] {
	return func(n *Node[S, A, R]) (float64, error) {
		switch v := n.Properties[key].(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		default:
			return 0, errors.Wrapf(ErrNoScore, "node %s property %q", n.ID, key)
		}
	}
}

// rationalChild returns the index of the child the mover of n would pick: the maximum score when
// Player is to move, the minimum when Opponent is. Ties are broken uniformly at random.
// The caller must hold the read lock.
func (t *Tree[S, A, R]) rationalChild(n *Node[S, A, R], score ScoreFunc[S, A, R]) (int, error) {
	if len(n.Children) == 0 {
		return -1, errors.Wrapf(ErrNoChildren, "node %s", n.ID)
	}

	scores := make([]float64, len(n.Children))
	for i, id := range n.Children {
		child, ok := t.nodes[id]
		if !ok {
			return -1, errors.Wrapf(ErrNodeNotFound, "child %s of %s", id, n.ID)
		}
		s, err := score(child)
		if err != nil {
			return -1, err
		}
		scores[i] = s
	}

	better := func(i, j int) bool { return scores[i] > scores[j] }
	if n.State.NextTurn() == game.Opponent {
		better = func(i, j int) bool { return scores[i] < scores[j] }
	}

	t.rngMu.Lock()
	defer t.rngMu.Unlock()
	return utils.ArgBest(len(scores), better, t.rng), nil
}

// RationalPath descends from the root through rational children until a leaf and returns the ids
// along the way, root first.
func (t *Tree[S, A, R]) RationalPath(score ScoreFunc[S, A, R]) ([]NodeID, error) {
	t.RLock()
	defer t.RUnlock()

	root, ok := t.nodes[t.root]
	if !ok {
		return nil, ErrNoRoot
	}

	path := []NodeID{root.ID}
	node := root
	for len(node.Children) > 0 {
		i, err := t.rationalChild(node, score)
		if err != nil {
			return nil, err
		}
		node = t.nodes[node.Children[i]]
		path = append(path, node.ID)
	}
	return path, nil
}

// RationalAction returns the action leading into the root's rational child.
func (t *Tree[S, A, R]) RationalAction(score ScoreFunc[S, A, R]) (A, error) {
	var action A

	path, err := t.RationalPath(score)
	if err != nil {
		return action, err
	}
	if len(path) < 2 {
		return action, errors.Wrap(ErrNoChildren, "root")
	}

	t.RLock()
	defer t.RUnlock()
	n, ok := t.nodes[path[1]]
	if !ok {
		return action, errors.Wrapf(ErrNodeNotFound, "node %s", path[1])
	}
	return n.ParentEdge.Action, nil
}
