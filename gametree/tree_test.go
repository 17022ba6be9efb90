package gametree

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"connectx/game"
	"connectx/utils"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockState struct {
	id   int
	turn game.Turn
}

func (s mockState) NextTurn() game.Turn { return s.turn }
func (s mockState) ID() string          { return fmt.Sprint(s.id) }
func (s mockState) String() string      { return fmt.Sprintf("Node #%d", s.id) }

type mockAction struct {
	to   int
	turn game.Turn
}

func (a mockAction) Turn() game.Turn { return a.turn }
func (a mockAction) ID() string      { return fmt.Sprint(a.to) }
func (a mockAction) String() string  { return fmt.Sprintf("Edge #%d", a.to) }

type mockResult struct{}

func (mockResult) Winner() (game.Turn, bool) { return game.Player, false }

type mockTree = Tree[mockState, mockAction, mockResult]

func sequentialIDs() func() NodeID {
	next := 0
	return func() NodeID {
		next++
		return NodeID(fmt.Sprintf("n%d", next))
	}
}

var score = PropertyScore[mockState, mockAction, mockResult]("score")

// buildTree creates a root (to move) with children scored by scores.
func buildTree(t *testing.T, turn game.Turn, scores ...float64) (*mockTree, NodeID, []NodeID) {
	tree := New[mockState, mockAction, mockResult](WithIDGenerator(sequentialIDs()), WithRand(utils.NewRand(3)))
	root, err := tree.AddRoot(mockState{id: 0, turn: turn}, mockResult{}, false)
	require.NoError(t, err)

	children := []NodeID{}
	for i, s := range scores {
		child, err := tree.Grow(root, mockAction{to: i + 1, turn: turn}, mockState{id: i + 1, turn: turn.Other()}, mockResult{}, false)
		require.NoError(t, err)
		require.NoError(t, tree.AssignProperty(child, "score", s))
		children = append(children, child)
	}
	return tree, root, children
}

func TestAddRoot(t *testing.T) {
	t.Run("adding the first root", func(t *testing.T) {
		tree := New[mockState, mockAction, mockResult]()
		id, err := tree.AddRoot(mockState{}, mockResult{}, false)

		require.NoError(t, err)
		got, err := tree.Root()
		require.NoError(t, err)
		require.Equal(t, id, got, "Root should be the added node")
		require.Equal(t, 1, tree.Len())
	})

	t.Run("adding a second root", func(t *testing.T) {
		tree := New[mockState, mockAction, mockResult]()
		_, err := tree.AddRoot(mockState{}, mockResult{}, false)
		require.NoError(t, err)

		_, err = tree.AddRoot(mockState{}, mockResult{}, false)
		require.True(t, errors.Is(err, ErrRootExists), "Should refuse a second root")
	})

	t.Run("empty tree", func(t *testing.T) {
		tree := New[mockState, mockAction, mockResult]()
		_, err := tree.Root()
		require.ErrorIs(t, err, ErrNoRoot)
	})

	t.Run("uuid node ids by default", func(t *testing.T) {
		tree := New[mockState, mockAction, mockResult]()
		id, err := tree.AddRoot(mockState{id: 7}, mockResult{}, false)
		require.NoError(t, err)
		require.Len(t, string(id), 36, "Should be a UUID string")
		require.NotEqual(t, "7", string(id), "Node id should not be the state id")
	})
}

func TestGrow(t *testing.T) {
	t.Run("growing children in order", func(t *testing.T) {
		tree, root, children := buildTree(t, game.Player, 1, 2, 3)

		got, err := tree.Children(root)
		require.NoError(t, err)
		require.Equal(t, children, got, "Children should keep insertion order")

		node, err := tree.Node(children[1])
		require.NoError(t, err)
		require.Equal(t, root, node.Parent)
		require.Equal(t, "2", node.ParentEdge.ID(), "Edge id should be the action id")
		require.Equal(t, mockState{id: 2, turn: game.Opponent}, node.State)
	})

	t.Run("growing under a missing parent", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player)
		_, err := tree.Grow("missing", mockAction{}, mockState{}, mockResult{}, false)
		require.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("growing concurrently", func(t *testing.T) {
		tree, root, _ := buildTree(t, game.Player)
		errs := make(chan error)
		for i := 0; i < 8; i++ {
			go func(i int) {
				_, err := tree.Grow(root, mockAction{to: i}, mockState{id: i}, mockResult{}, false)
				errs <- err
			}(i)
		}
		for i := 0; i < 8; i++ {
			require.NoError(t, <-errs)
		}
		children, err := tree.Children(root)
		require.NoError(t, err)
		require.Len(t, children, 8)
	})
}

func TestRemove(t *testing.T) {
	tree, root, children := buildTree(t, game.Player, 1, 2)
	grandChild, err := tree.Grow(children[0], mockAction{to: 3}, mockState{id: 3}, mockResult{}, true)
	require.NoError(t, err)

	require.NoError(t, tree.Remove(children[0]))

	got, err := tree.Children(root)
	require.NoError(t, err)
	require.Equal(t, []NodeID{children[1]}, got, "Removed child should be unlinked from its parent")
	_, err = tree.Node(grandChild)
	require.ErrorIs(t, err, ErrNodeNotFound, "Subtree should be removed")
	_, err = tree.Grow(children[0], mockAction{}, mockState{}, mockResult{}, false)
	require.ErrorIs(t, err, ErrNodeNotFound, "Growing under a removed node should fail")
	require.Equal(t, 2, tree.Len())
}

func TestProperties(t *testing.T) {
	t.Run("assigning and reading", func(t *testing.T) {
		tree, root, _ := buildTree(t, game.Player)
		require.NoError(t, tree.AssignProperty(root, "score", 1.5))

		got, err := tree.Property(root, "score")
		require.NoError(t, err)
		require.Equal(t, 1.5, got)

		missing, err := tree.Property(root, "other")
		require.NoError(t, err)
		require.Nil(t, missing, "Unassigned keys should read as nil")
	})

	t.Run("missing nodes", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player)
		_, err := tree.Property("missing", "score")
		require.ErrorIs(t, err, ErrNodeNotFound)
		require.ErrorIs(t, tree.AssignProperty("missing", "score", 1.0), ErrNodeNotFound)
		_, _, _, err = tree.StateResult("missing")
		require.ErrorIs(t, err, ErrNodeNotFound)
	})

	t.Run("node snapshots are detached", func(t *testing.T) {
		tree, root, _ := buildTree(t, game.Player, 1)
		node, err := tree.Node(root)
		require.NoError(t, err)
		node.Properties["score"] = 99.0

		got, err := tree.Property(root, "score")
		require.NoError(t, err)
		require.Nil(t, got, "Mutating a snapshot should not touch the tree")
	})

	t.Run("edge properties", func(t *testing.T) {
		tree, root, children := buildTree(t, game.Player, 1)
		require.NoError(t, tree.AssignEdgeProperty(children[0], "prior", 0.5))
		require.Error(t, tree.AssignEdgeProperty(root, "prior", 0.5), "Root has no parent edge")

		node, err := tree.Node(children[0])
		require.NoError(t, err)
		require.Equal(t, 0.5, node.ParentEdge.Properties["prior"])
	})
}

func TestStateResult(t *testing.T) {
	tree, root, _ := buildTree(t, game.Player)
	child, err := tree.Grow(root, mockAction{to: 1}, mockState{id: 1}, mockResult{}, true)
	require.NoError(t, err)

	state, _, terminal, err := tree.StateResult(child)
	require.NoError(t, err)
	require.Equal(t, mockState{id: 1}, state)
	require.True(t, terminal)
}

func TestRationalAction(t *testing.T) {
	t.Run("player maximizes", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player, 3, 9, -2)
		action, err := tree.RationalAction(score)
		require.NoError(t, err)
		require.Equal(t, 2, action.to)
	})

	t.Run("opponent minimizes", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Opponent, 3, 9, -2)
		action, err := tree.RationalAction(score)
		require.NoError(t, err)
		require.Equal(t, 3, action.to)
	})

	t.Run("ties are broken among maxima only", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player, 5, 1, 5, 5)
		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			action, err := tree.RationalAction(score)
			require.NoError(t, err)
			require.Contains(t, []int{1, 3, 4}, action.to, "Should only pick tied maxima")
			seen[action.to] = true
		}
		require.Len(t, seen, 3, "Every tied maximum should be reachable")
	})

	t.Run("root without children", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player)
		_, err := tree.RationalAction(score)
		require.ErrorIs(t, err, ErrNoChildren)
	})

	t.Run("unscored children", func(t *testing.T) {
		tree, root, _ := buildTree(t, game.Player)
		_, err := tree.Grow(root, mockAction{to: 1}, mockState{id: 1}, mockResult{}, false)
		require.NoError(t, err)
		_, err = tree.RationalAction(score)
		require.ErrorIs(t, err, ErrNoScore)
	})
}

func TestRationalPath(t *testing.T) {
	tree, root, children := buildTree(t, game.Player, 1, 4)
	// Opponent to move at children[1]: picks the smaller grandchild.
	low, err := tree.Grow(children[1], mockAction{to: 10, turn: game.Opponent}, mockState{id: 10}, mockResult{}, true)
	require.NoError(t, err)
	require.NoError(t, tree.AssignProperty(low, "score", 4.0))
	high, err := tree.Grow(children[1], mockAction{to: 11, turn: game.Opponent}, mockState{id: 11}, mockResult{}, true)
	require.NoError(t, err)
	require.NoError(t, tree.AssignProperty(high, "score", 8.0))

	path, err := tree.RationalPath(score)
	require.NoError(t, err)
	require.Equal(t, []NodeID{root, children[1], low}, path)
}

func TestExport(t *testing.T) {
	t.Run("exporting the nested structure", func(t *testing.T) {
		tree, root, _ := buildTree(t, game.Player, 2, 7)
		require.NoError(t, tree.AssignProperty(root, "score", 7.0))

		got, err := tree.Export(score)
		require.NoError(t, err)

		require.Equal(t, string(root), got.ID)
		require.Equal(t, "Node #0", got.Repr)
		require.True(t, got.IsRational, "Root is always on the rational line")
		require.Nil(t, got.ParentEdge, "Root has no parent edge")
		require.Equal(t, 7.0, *got.Score)
		require.Len(t, got.Children, 2)

		require.False(t, got.Children[0].IsRational)
		require.True(t, got.Children[1].IsRational, "Player should maximize")
		edge := got.Children[1].ParentEdge
		require.Equal(t, "2", edge.ID)
		require.Equal(t, "Edge #2", edge.Repr)
		require.Equal(t, "player", edge.Turn, "Turn should be lowercased")
		require.True(t, edge.IsRational)
	})

	t.Run("marking a single root to leaf line", func(t *testing.T) {
		tree, _, children := buildTree(t, game.Player, 3, 3)
		for i, child := range children {
			for j := 0; j < 2; j++ {
				id := 10*(i+1) + j
				grandchild, err := tree.Grow(child, mockAction{to: id, turn: game.Opponent}, mockState{id: id, turn: game.Player}, mockResult{}, true)
				require.NoError(t, err)
				require.NoError(t, tree.AssignProperty(grandchild, "score", 3.0))
			}
		}

		for i := 0; i < 20; i++ {
			got, err := tree.Export(score)
			require.NoError(t, err)

			flagged := 0
			var walk func(n *ExportNode, parentRational bool)
			walk = func(n *ExportNode, parentRational bool) {
				if n.IsRational {
					require.True(t, parentRational, "%s is marked below an unmarked parent", n.Repr)
					flagged++
				}
				marked := 0
				for _, c := range n.Children {
					if c.IsRational {
						marked++
					}
					walk(c, n.IsRational)
				}
				if n.IsRational && len(n.Children) > 0 {
					require.Equal(t, 1, marked, "%s should mark exactly one child", n.Repr)
				} else {
					require.Zero(t, marked, "%s is off the line", n.Repr)
				}
			}
			walk(got, true)
			require.Equal(t, 3, flagged, "Line should run root, child, grandchild")
		}
	})

	t.Run("writing json", func(t *testing.T) {
		tree, _, _ := buildTree(t, game.Player, 2, 7)
		var sb strings.Builder
		require.NoError(t, tree.WriteJSON(&sb, score))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(sb.String()), &decoded))
		for _, key := range []string{"id", "repr", "isTerminal", "properties", "isRational", "parentEdge", "children"} {
			require.Contains(t, decoded, key)
		}
		require.Nil(t, decoded["parentEdge"])
		require.Nil(t, decoded["score"], "Unscored root should export a null score")
	})

	t.Run("empty tree", func(t *testing.T) {
		tree := New[mockState, mockAction, mockResult]()
		_, err := tree.Export(score)
		require.ErrorIs(t, err, ErrNoRoot)
	})
}
