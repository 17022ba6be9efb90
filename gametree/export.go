package gametree

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ExportEdge and ExportNode are the nested form consumed by the tree visualizer.
type ExportEdge struct {
	ID         string     `json:"id"`
	Repr       string     `json:"repr"`
	Turn       string     `json:"turn"`
	IsRational bool       `json:"isRational"`
	Properties Properties `json:"properties"`
}

type ExportNode struct {
	ID         string        `json:"id"`
	Repr       string        `json:"repr"`
	IsTerminal bool          `json:"isTerminal"`
	Score      *float64      `json:"score"`
	Properties Properties    `json:"properties"`
	IsRational bool          `json:"isRational"`
	ParentEdge *ExportEdge   `json:"parentEdge"`
	Children   []*ExportNode `json:"children"`
}

// Export serializes the tree from the root. The rational line is walked again by the same rule as
// RationalPath with a fresh random tie-break at every node on it, so the marked line may differ
// between calls when scores tie. Nodes off the line are never marked.
func (t *Tree[S, A, R]) Export(score ScoreFunc[S, A, R]) (*ExportNode, error) {
	t.RLock()
	defer t.RUnlock()

	if _, ok := t.nodes[t.root]; !ok {
		return nil, ErrNoRoot
	}
	return t.export(t.root, true, score)
}

func (t *Tree[S, A, R]) export(id NodeID, rational bool, score ScoreFunc[S, A, R]) (*ExportNode, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}

	out := &ExportNode{
		ID:         string(n.ID),
		Repr:       n.State.String(),
		IsTerminal: n.Terminal,
		Properties: n.Properties.clone(),
		IsRational: rational,
		Children:   make([]*ExportNode, 0, len(n.Children)),
	}
	if s, err := score(n); err == nil {
		out.Score = &s
	}
	if n.ParentEdge != nil {
		out.ParentEdge = &ExportEdge{
			ID:         n.ParentEdge.ID(),
			Repr:       n.ParentEdge.Action.String(),
			Turn:       strings.ToLower(n.ParentEdge.Action.Turn().String()),
			IsRational: rational,
			Properties: n.ParentEdge.Properties.clone(),
		}
	}

	if len(n.Children) == 0 {
		return out, nil
	}
	chosen := -1
	if rational {
		i, err := t.rationalChild(n, score)
		if err != nil {
			return nil, err
		}
		chosen = i
	}
	for i, child := range n.Children {
		c, err := t.export(child, i == chosen, score)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, c)
	}
	return out, nil
}

// WriteJSON exports the tree and encodes it to w.
func (t *Tree[S, A, R]) WriteJSON(w io.Writer, score ScoreFunc[S, A, R]) error {
	root, err := t.Export(score)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(root); err != nil {
		return errors.Wrap(err, "failed to encode tree")
	}
	return nil
}
