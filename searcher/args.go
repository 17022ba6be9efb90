package searcher

import (
	"connectx/experiments/metrics"
	"connectx/gametree"
	"connectx/meta"
	"connectx/utils"
)

type Option func(s *settings)

type settings struct {
	goroutines  int
	playouts    int
	seed        uint64
	seeded      bool
	metrics     metrics.Collector
	treeOptions []gametree.Option
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		goroutines: 1,
		playouts:   meta.PLAYOUTS,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	return s
}

// WithGoroutines fans out root children (minimax) or playouts (MCTS) over n goroutines.
func WithGoroutines(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.goroutines = n
		}
	}
}

// WithPlayouts sets the number of random playouts per frontier node.
func WithPlayouts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.playouts = n
		}
	}
}

// WithSeed makes tie-breaks and playouts reproducible.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.seed = seed
		s.seeded = true
	}
}

func WithMetrics() Option {
	return func(s *settings) {
		s.metrics = metrics.NewCollector()
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(s *settings) {
		if c != nil {
			s.metrics = c
		}
	}
}

// WithTreeOptions passes options to every tree a search builds.
func WithTreeOptions(options ...gametree.Option) Option {
	return func(s *settings) {
		s.treeOptions = append(s.treeOptions, options...)
	}
}

func (s settings) newTreeOptions() []gametree.Option {
	options := []gametree.Option{}
	if s.seeded {
		options = append(options, gametree.WithRand(utils.NewRand(s.seed)))
	}
	return append(options, s.treeOptions...)
}

// rand returns the source for the i-th independent stream of a search.
func (s settings) rand(i int) utils.Rand {
	if s.seeded {
		return utils.NewRand(s.seed + uint64(i) + 1)
	}
	return utils.DefaultRand()
}
