package engine

import (
	"connectx/connectx"
	"connectx/experiments/metrics"
)

type Engine interface {
	// Run plays a game till there's a winner, a draw or a max number of turns is reached. The
	// winner is 0 for a draw.
	Run() (winner connectx.Mark, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
