package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Algorithm  string
	Goroutines int
	Depth      int
	Duration   time.Duration
	Nodes      int
	Playouts   int
}

type MoveMetric struct {
	Step   int
	Player int // Mark of the player that moved
	Column int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int // Mark
	Winner         int // Mark, 0 for a draw
	InvalidPlayer  int // Mark that forfeited by an invalid play, 0 if none
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(algorithm string, goroutines, depth int)
	AddNodes(n int)
	AddPlayouts(n int)
	Complete() SearchMetric
}

type collector struct {
	algorithm  string
	goroutines int
	depth      int
	startTime  time.Time
	nodes      atomic.Int64
	playouts   atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(algorithm string, goroutines, depth int) {
	m.startTime = time.Now()
	m.algorithm = algorithm
	m.goroutines = goroutines
	m.depth = depth
	m.nodes.Store(0)
	m.playouts.Store(0)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddPlayouts(n int) {
	m.playouts.Add(int64(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Algorithm:  m.algorithm,
		Goroutines: m.goroutines,
		Depth:      m.depth,
		Duration:   time.Since(m.startTime),
		Nodes:      int(m.nodes.Load()),
		Playouts:   int(m.playouts.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(algorithm string, goroutines, depth int) {}
func (m *dummyCollector) AddNodes(n int)                                {}
func (m *dummyCollector) AddPlayouts(n int)                             {}
func (m *dummyCollector) Complete() SearchMetric                        { return SearchMetric{} }
