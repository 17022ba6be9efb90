package config

import (
	"os"
	"strings"

	"connectx/agent"
	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/meta"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	MatchMode      = "match"
	DepthMode      = "minimax_depth"
	ThroughputMode = "mcts_throughput"
)

// Config is the CLI configuration. Zero fields in a YAML file keep their defaults.
type Config struct {
	LogLevel   string                `yaml:"log_level"`
	Mode       string                `yaml:"mode"` // match, minimax_depth or mcts_throughput
	Board      connectx.Config       `yaml:"board"`
	Agents     []metrics.AgentConfig `yaml:"agents"`
	Games      int                   `yaml:"games"`
	MaxTurns   int                   `yaml:"max_turns"`
	OutDir     string                `yaml:"outdir"`      // CSV records, empty to skip
	DumpTrees  bool                  `yaml:"dump_trees"`  // Search trees under <outdir>/tree
	RenderLast bool                  `yaml:"render_last"` // Print the final board of the last game
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Mode:     MatchMode,
		Board:    connectx.DefaultConfig(),
		Agents: []metrics.AgentConfig{
			{ID: 1, Algorithm: agent.Minimax, Depth: meta.MINIMAX_DEPTH, Goroutines: meta.GO_ROUTINES},
			{ID: 2, Algorithm: agent.Random},
		},
		Games:      meta.GAMES,
		MaxTurns:   meta.MAX_TURNS,
		RenderLast: true,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "failed to parse %s", path)
	}
	return config, nil
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log level %q", c.LogLevel)
	}
	if err := c.Board.Validate(); err != nil {
		return err
	}
	switch c.Mode {
	case MatchMode:
		if len(c.Agents) != 2 {
			return errors.Wrapf(ErrInvalidConfig, "a match needs 2 agents, got %d", len(c.Agents))
		}
	case DepthMode, ThroughputMode:
	default:
		return errors.Wrapf(ErrInvalidConfig, "mode %q", c.Mode)
	}
	if c.Games <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "games %d", c.Games)
	}
	if c.MaxTurns <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max turns %d", c.MaxTurns)
	}
	for _, a := range c.Agents {
		if err := validateAgent(a); err != nil {
			return err
		}
	}
	return nil
}

func validateAgent(a metrics.AgentConfig) error {
	switch strings.ToLower(a.Algorithm) {
	case agent.Minimax, agent.MCTS:
		if a.Depth < 1 {
			return errors.Wrapf(ErrInvalidConfig, "agent %d: %s depth %d", a.ID, a.Algorithm, a.Depth)
		}
	case agent.Lookahead, agent.Random:
	default:
		return errors.Wrapf(ErrInvalidConfig, "agent %d: algorithm %q", a.ID, a.Algorithm)
	}
	if a.Playouts < 0 || a.Goroutines < 0 {
		return errors.Wrapf(ErrInvalidConfig, "agent %d: negative playouts or goroutines", a.ID)
	}
	return nil
}
