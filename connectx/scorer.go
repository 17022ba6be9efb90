package connectx

import "connectx/game"

const (
	WinScore           = 1_000_000
	LossScore          = -10_000
	ThreeScore         = 1
	OpponentThreeScore = -100
)

// Scorer evaluates positions from Player's side regardless of who is to move. Every window filled
// by one mark adds WinScore or LossScore. Every other window holding InARow-1 stones of one mark
// and a single empty cell that can be played right now counts as a threat.
func Scorer(config Config) game.Scorer[State] {
	lines := windows(config)
	return func(state State) float64 {
		playable := make([]bool, len(state.grid))
		for column := 0; column < config.Columns; column++ {
			if row, ok := state.PlayableRow(column); ok {
				playable[row*config.Columns+column] = true
			}
		}

		score := 0.0
		for _, window := range lines {
			m, ok := filledBy(state.grid, window)
			switch {
			case ok && m == PlayerMark:
				score += WinScore
			case ok:
				score += LossScore
			default:
				score += threat(state.grid, playable, window, config.InARow)
			}
		}
		return score
	}
}

func threat(grid []Mark, playable []bool, window []int, inARow int) float64 {
	var players, opponents, open int
	for _, i := range window {
		switch {
		case grid[i] == PlayerMark:
			players++
		case grid[i] == OpponentMark:
			opponents++
		case playable[i]:
			open++
		default:
			return 0 // An empty cell that needs support first
		}
	}
	switch {
	case open != 1:
		return 0
	case players == inARow-1:
		return ThreeScore
	case opponents == inARow-1:
		return OpponentThreeScore
	default:
		return 0
	}
}
