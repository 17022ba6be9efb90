package game

import "github.com/pkg/errors"

// Turn identifies which side is to move. Exactly one side is to move at any state.
type Turn int

const (
	Player Turn = iota
	Opponent
)

func (t Turn) Other() Turn {
	if t == Player {
		return Opponent
	}
	return Player
}

func (t Turn) String() string {
	switch t {
	case Player:
		return "PLAYER"
	case Opponent:
		return "OPPONENT"
	default:
		return "UNKNOWN"
	}
}

var ErrInvalidMove = errors.New("invalid move")

// Result is the outcome of a finished game. Winner reports false for a draw.
type Result interface {
	Winner() (Turn, bool)
}

// State should be immutable - operations on State always return a new copy
type State interface {
	NextTurn() Turn
	ID() string
	String() string
}

type Action interface {
	Turn() Turn
	ID() string
	String() string
}

// Game describes the rules of a game. It holds no position itself: states are passed in and new
// states are returned.
type Game[S State, A Action, R Result] interface {
	// Result returns the terminal result of state, and false while the game continues.
	Result(state S) (R, bool)
	// AvailableActions returns the legal actions in a fixed order. It is empty only for terminal states.
	AvailableActions(state S) []A
	// Step applies a legal action and returns the successor state with the turn flipped.
	// Illegal actions fail with ErrInvalidMove.
	Step(state S, action A) (S, error)
}

// Scorer evaluates a state. Positive values favor Player, negative values favor Opponent.
// It is applied both to terminal states and to states at the search depth cutoff.
type Scorer[S State] func(state S) float64

// Outcome maps a terminal score onto a playout outcome in [0, 1] from Player's perspective.
func Outcome(score float64) float64 {
	switch {
	case score > 0:
		return Win
	case score == 0:
		return Draw
	default:
		return Loss
	}
}

// OutcomeOf maps a terminal result onto a playout outcome in [0, 1] from Player's perspective.
func OutcomeOf(result Result) float64 {
	winner, ok := result.Winner()
	switch {
	case !ok:
		return Draw
	case winner == Player:
		return Win
	default:
		return Loss
	}
}

const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)
