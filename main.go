package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"connectx/config"
	"connectx/connectx"
	"connectx/experiments"
	"connectx/experiments/metrics"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "", "YAML config file")
	mode := flag.String("mode", "", "match, minimax_depth or mcts_throughput")
	agent1 := flag.String("agent1", "", "Algorithm of agent 1 (minimax, mcts, lookahead, random)")
	agent2 := flag.String("agent2", "", "Algorithm of agent 2 (minimax, mcts, lookahead, random)")
	depth := flag.Int("depth", 0, "Search depth of both agents")
	games := flag.Int("games", 0, "Number of games per match up")
	outdir := flag.String("outdir", "", "Directory for CSV records and tree dumps")
	dumpTrees := flag.Bool("dump-trees", false, "Dump every search tree as JSON under <outdir>/tree")
	logLevel := flag.String("log-level", "", "trace, debug, info, warn or error")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	applyFlags(&cfg, *mode, *agent1, *agent2, *depth, *games, *outdir, *dumpTrees, *logLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func applyFlags(cfg *config.Config, mode, agent1, agent2 string, depth, games int, outdir string, dumpTrees bool, logLevel string) {
	if mode != "" {
		cfg.Mode = mode
	}
	for i, algorithm := range []string{agent1, agent2} {
		if algorithm != "" && i < len(cfg.Agents) {
			cfg.Agents[i].Algorithm = algorithm
		}
	}
	if depth > 0 {
		for i := range cfg.Agents {
			cfg.Agents[i].Depth = depth
		}
	}
	if games > 0 {
		cfg.Games = games
	}
	if outdir != "" {
		cfg.OutDir = outdir
	}
	if dumpTrees {
		cfg.DumpTrees = true
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

func setupLogging(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)

	fd := os.Stderr.Fd()
	noColor := !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStderr(),
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	})
}

func run(cfg config.Config) error {
	switch cfg.Mode {
	case config.DepthMode, config.ThroughputMode:
		x := experiments.DepthExperiment(cfg.Games)
		if cfg.Mode == config.ThroughputMode {
			x = experiments.ThroughputExperiment(cfg.Games)
		}
		x.Board, x.MaxTurns = cfg.Board, cfg.MaxTurns
		root := cfg.OutDir
		if root == "" {
			root = "out"
		}
		summaries, dir, err := x.Run(root)
		if err != nil {
			return err
		}
		for i, summary := range summaries {
			fmt.Printf("match up %d: %s\n", i+1, summary)
		}
		fmt.Printf("records stored in %s\n", dir)
		return nil
	}

	match := experiments.Match{
		Agents:   [2]metrics.AgentConfig{cfg.Agents[0], cfg.Agents[1]},
		Games:    cfg.Games,
		Board:    cfg.Board,
		MaxTurns: cfg.MaxTurns,
	}
	if cfg.DumpTrees && cfg.OutDir != "" {
		match.TreeDir = cfg.OutDir
	}

	results := &experiments.Results{}
	summary, err := experiments.RunMatch(match, results)
	if err != nil {
		return err
	}
	fmt.Printf("Agent 1 Win Percentage: %.2f\n", summary.WinPercentage(0))
	fmt.Printf("Agent 2 Win Percentage: %.2f\n", summary.WinPercentage(1))
	fmt.Printf("Number of Invalid Plays by Agent 1: %d\n", summary.Invalid[0])
	fmt.Printf("Number of Invalid Plays by Agent 2: %d\n", summary.Invalid[1])

	if cfg.RenderLast && summary.Games > 0 {
		out := termenv.NewOutput(os.Stdout)
		fmt.Print(connectx.Render(summary.Final, out.EnvColorProfile()))
	}

	if cfg.OutDir != "" {
		dir, err := experiments.Store(cfg.OutDir, "match", cfg.Agents, *results)
		if err != nil {
			return err
		}
		fmt.Printf("records stored in %s\n", dir)
	}
	return nil
}
