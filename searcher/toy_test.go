package searcher

import (
	"fmt"
	"hash/fnv"
	"slices"

	"connectx/game"
	"connectx/gametree"
)

// Toy game: a perfect binary tree of 15 states where state i moves to 2i+1 and 2i+2, and
// states 7..14 are terminal.

type toyState struct{ i int }

func (s toyState) NextTurn() game.Turn {
	if slices.Contains([]int{1, 2, 7, 8, 9, 10, 11, 12, 13, 14}, s.i) {
		return game.Opponent
	}
	return game.Player
}
func (s toyState) ID() string     { return fmt.Sprint(s.i) }
func (s toyState) String() string { return fmt.Sprintf("Node #%d", s.i) }

type toyAction struct{ to int }

func (a toyAction) Turn() game.Turn { return toyState{a.to}.NextTurn().Other() }
func (a toyAction) ID() string      { return fmt.Sprint(a.to) }
func (a toyAction) String() string  { return fmt.Sprintf("Edge #%d", a.to) }

type toyResult struct{ score float64 }

func (r toyResult) Winner() (game.Turn, bool) {
	switch {
	case r.score > 0:
		return game.Player, true
	case r.score < 0:
		return game.Opponent, true
	default:
		return game.Player, false
	}
}

var toyScores = map[int]float64{7: 40, 8: 0, 9: -1, 10: -20, 11: 10, 12: -10, 13: -5, 14: 30}

type toyGame struct{}

func (toyGame) Result(s toyState) (toyResult, bool) {
	score, ok := toyScores[s.i]
	return toyResult{score}, ok
}

func (toyGame) AvailableActions(s toyState) []toyAction {
	if s.i >= 7 {
		return nil
	}
	return []toyAction{{s.i*2 + 1}, {s.i*2 + 2}}
}

func (toyGame) Step(s toyState, a toyAction) (toyState, error) {
	if a.to != s.i*2+1 && a.to != s.i*2+2 {
		return s, game.ErrInvalidMove
	}
	return toyState{a.to}, nil
}

func toyScorer(s toyState) float64 {
	return toyScores[s.i]
}

// Branch game: every state has `branching` actions until `height` plies are played. Leaf scores
// are a deterministic hash of the path in [-10, 10].

type branchState struct {
	path string
	turn game.Turn
}

func (s branchState) NextTurn() game.Turn { return s.turn }
func (s branchState) ID() string          { return "/" + s.path }
func (s branchState) String() string      { return s.ID() }

type branchAction struct {
	n    int
	turn game.Turn
}

func (a branchAction) Turn() game.Turn { return a.turn }
func (a branchAction) ID() string      { return fmt.Sprint(a.n) }
func (a branchAction) String() string  { return fmt.Sprintf("a%d", a.n) }

type branchGame struct {
	branching int
	height    int
	flat      bool // Every leaf scores 0
}

func (g branchGame) Result(s branchState) (toyResult, bool) {
	if len(s.path) < g.height {
		return toyResult{}, false
	}
	return toyResult{g.score(s)}, true
}

func (g branchGame) AvailableActions(s branchState) []branchAction {
	if len(s.path) >= g.height {
		return nil
	}
	actions := make([]branchAction, g.branching)
	for i := range actions {
		actions[i] = branchAction{n: i, turn: s.turn}
	}
	return actions
}

func (g branchGame) Step(s branchState, a branchAction) (branchState, error) {
	if a.n < 0 || a.n >= g.branching || len(s.path) >= g.height {
		return s, game.ErrInvalidMove
	}
	return branchState{path: s.path + fmt.Sprint(a.n), turn: s.turn.Other()}, nil
}

func (g branchGame) score(s branchState) float64 {
	if g.flat {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(s.path))
	return float64(h.Sum32()%21) - 10
}

func (g branchGame) scorer(s branchState) float64 {
	if len(s.path) < g.height {
		return float64(len(s.path)) // Static evaluation at the cutoff
	}
	return g.score(s)
}

func sequentialIDs() func() gametree.NodeID {
	next := 0
	return func() gametree.NodeID {
		next++
		return gametree.NodeID(fmt.Sprintf("n%d", next))
	}
}
