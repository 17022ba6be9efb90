// Package connectx implements the ConnectX rules (Connect Four on an arbitrary board) as a
// game.Game for the searchers.
package connectx

import (
	"fmt"
	"strings"

	"connectx/game"
	"connectx/meta"

	"github.com/pkg/errors"
)

var (
	ErrInvalidConfig      = errors.New("invalid board config")
	ErrInvalidObservation = errors.New("invalid observation")
)

// Mark is the content of a board cell.
type Mark int

const (
	Empty Mark = iota
	PlayerMark
	OpponentMark
)

func (m Mark) Turn() game.Turn {
	if m == OpponentMark {
		return game.Opponent
	}
	return game.Player
}

func (m Mark) Other() Mark {
	if m == PlayerMark {
		return OpponentMark
	}
	return PlayerMark
}

// MarkOf returns the absolute mark of turn: Player holds mark 1.
func MarkOf(turn game.Turn) Mark {
	if turn == game.Opponent {
		return OpponentMark
	}
	return PlayerMark
}

type Config struct {
	Columns int `yaml:"columns" json:"columns"`
	Rows    int `yaml:"rows" json:"rows"`
	InARow  int `yaml:"inarow" json:"inarow"`
}

func DefaultConfig() Config {
	return Config{Columns: meta.COLUMNS, Rows: meta.ROWS, InARow: meta.IN_A_ROW}
}

func (c Config) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 || c.InARow <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "%dx%d in a row %d", c.Rows, c.Columns, c.InARow)
	}
	if c.InARow > c.Columns && c.InARow > c.Rows {
		return errors.Wrapf(ErrInvalidConfig, "%d in a row does not fit %dx%d", c.InARow, c.Rows, c.Columns)
	}
	return nil
}

// Observation is the view a player gets each turn: the board flattened row-major from the top,
// with 0 for empty cells and the marks 1 and 2.
type Observation struct {
	Board []int `json:"board"`
	Mark  Mark  `json:"mark"`
	Step  int   `json:"step"`
}

// State is an immutable board position. Row 0 is the top row.
type State struct {
	config Config
	grid   []Mark
	next   Mark
	step   int
}

// NewState copies grid, which must hold Rows*Columns cells in row-major order.
func NewState(config Config, grid []Mark, next Mark, step int) (State, error) {
	if err := config.Validate(); err != nil {
		return State{}, err
	}
	if len(grid) != config.Rows*config.Columns {
		return State{}, errors.Wrapf(ErrInvalidObservation, "board has %d cells, want %d", len(grid), config.Rows*config.Columns)
	}
	for i, m := range grid {
		if m < Empty || m > OpponentMark {
			return State{}, errors.Wrapf(ErrInvalidObservation, "cell %d holds %d", i, m)
		}
	}
	if next != PlayerMark && next != OpponentMark {
		return State{}, errors.Wrapf(ErrInvalidObservation, "next mark %d", next)
	}
	return State{config: config, grid: append([]Mark(nil), grid...), next: next, step: step}, nil
}

// EmptyState returns the starting position with Player to move.
func EmptyState(config Config) (State, error) {
	return NewState(config, make([]Mark, config.Rows*config.Columns), PlayerMark, 0)
}

// NewStateFromObservation builds the position from the observing player's point of view: the
// observer's stones become PlayerMark and the observer is to move.
func NewStateFromObservation(obs Observation, config Config) (State, error) {
	if obs.Mark != PlayerMark && obs.Mark != OpponentMark {
		return State{}, errors.Wrapf(ErrInvalidObservation, "mark %d", obs.Mark)
	}
	grid := make([]Mark, len(obs.Board))
	for i, cell := range obs.Board {
		switch Mark(cell) {
		case Empty:
		case obs.Mark:
			grid[i] = PlayerMark
		case obs.Mark.Other():
			grid[i] = OpponentMark
		default:
			return State{}, errors.Wrapf(ErrInvalidObservation, "cell %d holds %d", i, cell)
		}
	}
	return NewState(config, grid, PlayerMark, obs.Step)
}

func (s State) NextTurn() game.Turn { return s.next.Turn() }

func (s State) Next() Mark { return s.next }

func (s State) Step() int { return s.step }

func (s State) Config() Config { return s.config }

// At returns the mark at row, column.
func (s State) At(row, column int) Mark {
	return s.grid[row*s.config.Columns+column]
}

// Board returns the flattened board as an observation would carry it.
func (s State) Board() []int {
	board := make([]int, len(s.grid))
	for i, m := range s.grid {
		board[i] = int(m)
	}
	return board
}

// PlayableRow returns the lowest empty row of column, and false when the column is full or out
// of range.
func (s State) PlayableRow(column int) (int, bool) {
	if column < 0 || column >= s.config.Columns {
		return -1, false
	}
	for row := s.config.Rows - 1; row >= 0; row-- {
		if s.At(row, column) == Empty {
			return row, true
		}
	}
	return -1, false
}

func (s State) ID() string {
	return fmt.Sprintf("%s:%d", s.digits(""), s.next)
}

func (s State) String() string {
	return s.digits("\n")
}

func (s State) digits(sep string) string {
	var sb strings.Builder
	for row := 0; row < s.config.Rows; row++ {
		if row > 0 {
			sb.WriteString(sep)
		}
		for column := 0; column < s.config.Columns; column++ {
			sb.WriteByte(byte('0' + s.At(row, column)))
		}
	}
	return sb.String()
}

// drop returns a copy of s with a stone of the mover in column.
func (s State) drop(column int) (State, error) {
	row, ok := s.PlayableRow(column)
	if !ok {
		return s, errors.Wrapf(game.ErrInvalidMove, "column %d is not playable", column)
	}
	grid := append([]Mark(nil), s.grid...)
	grid[row*s.config.Columns+column] = s.next
	return State{config: s.config, grid: grid, next: s.next.Other(), step: s.step + 1}, nil
}
