package connectx

import (
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

var symbols = map[Mark]string{Empty: ".", PlayerMark: "X", OpponentMark: "O"}

var colors = map[Mark]string{PlayerMark: "#E06C75", OpponentMark: "#E5C07B"}

// Render draws the board with column numbers underneath, coloring the stones as far as profile
// supports. termenv.Ascii yields plain text.
func Render(state State, profile termenv.Profile) string {
	var sb strings.Builder
	for row := 0; row < state.config.Rows; row++ {
		for column := 0; column < state.config.Columns; column++ {
			m := state.At(row, column)
			cell := profile.String(symbols[m])
			if color, ok := colors[m]; ok {
				cell = cell.Foreground(profile.Color(color)).Bold()
			}
			sb.WriteString(" " + cell.String())
		}
		sb.WriteString("\n")
	}
	for column := 0; column < state.config.Columns; column++ {
		sb.WriteString(" " + profile.String(strconv.Itoa(column%10)).Faint().String())
	}
	sb.WriteString("\n")
	return sb.String()
}
