// meta/meta.go
package meta

// COLUMNS, ROWS and IN_A_ROW define the default ConnectX board.
const COLUMNS = 7
const ROWS = 6
const IN_A_ROW = 4

// MINIMAX_DEPTH defines the default search depth for minimax.
const MINIMAX_DEPTH = 3

// MCTS_DEPTH defines the default expansion depth for MCTS.
const MCTS_DEPTH = 1

// PLAYOUTS defines the number of random playouts per MCTS frontier node.
const PLAYOUTS = 30

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 1

// MAX_TURNS caps the length of a locally driven game.
const MAX_TURNS = 300

// GAMES defines the number of games per match.
const GAMES = 10
