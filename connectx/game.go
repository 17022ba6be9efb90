package connectx

import (
	"fmt"
	"strconv"

	"connectx/game"

	"github.com/pkg/errors"
)

// Action drops a stone into Column.
type Action struct {
	Column int
	turn   game.Turn
}

func NewAction(column int, turn game.Turn) Action {
	return Action{Column: column, turn: turn}
}

func (a Action) Turn() game.Turn { return a.turn }
func (a Action) ID() string      { return strconv.Itoa(a.Column) }
func (a Action) String() string  { return fmt.Sprintf("col=%d", a.Column) }

type Result struct {
	winner game.Turn
	draw   bool
}

func (r Result) Winner() (game.Turn, bool) {
	return r.winner, !r.draw
}

func (r Result) String() string {
	if r.draw {
		return "draw"
	}
	return fmt.Sprintf("%s wins", r.winner)
}

// Game holds the board geometry. It is stateless otherwise and safe for concurrent use.
type Game struct {
	config  Config
	windows [][]int // Cell indices of every line of InARow cells
}

func NewGame(config Config) *Game {
	if err := config.Validate(); err != nil {
		panic(err)
	}
	return &Game{config: config, windows: windows(config)}
}

func (g *Game) Config() Config { return g.config }

// Result reports a win when any window is filled by one mark, and a draw when the board is full.
func (g *Game) Result(state State) (Result, bool) {
	for _, window := range g.windows {
		if m, ok := filledBy(state.grid, window); ok {
			return Result{winner: m.Turn()}, true
		}
	}
	for column := 0; column < g.config.Columns; column++ {
		if state.grid[column] == Empty {
			return Result{}, false
		}
	}
	return Result{draw: true}, true
}

// AvailableActions returns a drop for every non-full column, left to right. Won positions have
// no actions.
func (g *Game) AvailableActions(state State) []Action {
	if _, over := g.Result(state); over {
		return nil
	}
	actions := make([]Action, 0, g.config.Columns)
	for column := 0; column < g.config.Columns; column++ {
		if state.grid[column] == Empty {
			actions = append(actions, NewAction(column, state.NextTurn()))
		}
	}
	return actions
}

func (g *Game) Step(state State, action Action) (State, error) {
	if action.turn != state.NextTurn() {
		return state, errors.Wrapf(game.ErrInvalidMove, "%s played on %s's turn", action.turn, state.NextTurn())
	}
	return state.drop(action.Column)
}

func filledBy(grid []Mark, window []int) (Mark, bool) {
	first := grid[window[0]]
	if first == Empty {
		return Empty, false
	}
	for _, i := range window[1:] {
		if grid[i] != first {
			return Empty, false
		}
	}
	return first, true
}

// windows lists every horizontal, vertical and diagonal line of InARow cells.
func windows(config Config) [][]int {
	directions := [][2]int{
		{0, 1},  // Horizontal
		{1, 0},  // Vertical
		{1, 1},  // Down right
		{1, -1}, // Down left
	}

	all := [][]int{}
	for _, d := range directions {
		for row := 0; row < config.Rows; row++ {
			for column := 0; column < config.Columns; column++ {
				endRow := row + d[0]*(config.InARow-1)
				endColumn := column + d[1]*(config.InARow-1)
				if endRow >= config.Rows || endColumn < 0 || endColumn >= config.Columns {
					continue
				}
				window := make([]int, config.InARow)
				for k := range window {
					window[k] = (row+d[0]*k)*config.Columns + column + d[1]*k
				}
				all = append(all, window)
			}
		}
	}
	return all
}
