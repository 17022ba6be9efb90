package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"connectx/connectx"
	"connectx/experiments/metrics"
	"connectx/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type connectxSearcher = searcher.Searcher[connectx.State, connectx.Action, connectx.Result]

// SearchAgent plays the rational move of a fresh minimax or MCTS tree every turn.
type SearchAgent struct {
	mu       sync.Mutex
	config   metrics.AgentConfig
	outdir   string
	board    connectx.Config
	game     *connectx.Game
	searcher connectxSearcher
}

func NewSearchAgent(config metrics.AgentConfig, outdir string) *SearchAgent {
	return &SearchAgent{config: config, outdir: outdir}
}

func (a *SearchAgent) Act(obs connectx.Observation, config connectx.Config) (int, metrics.SearchMetric, error) {
	state, err := connectx.NewStateFromObservation(obs, config)
	if err != nil {
		return 0, metrics.SearchMetric{}, err
	}
	g, s := a.searcherFor(config)

	decision, err := s.Search(state, a.config.Depth)
	if err != nil {
		log.Warn().Err(err).Msgf("agent %d search failed at step %d, falling back", a.config.ID, obs.Step)
		return fallback(g, state)
	}
	action, err := decision.Action()
	if err != nil {
		log.Warn().Err(err).Msgf("agent %d found no rational action at step %d, falling back", a.config.ID, obs.Step)
		return fallback(g, state)
	}

	if a.outdir != "" {
		if err := a.dump(decision, state.Step()); err != nil {
			log.Warn().Err(err).Msg("failed to dump tree")
		}
	}
	return action.Column, decision.Metric, nil
}

// searcherFor returns the game and searcher for the board, rebuilding both when the board changes.
func (a *SearchAgent) searcherFor(board connectx.Config) (*connectx.Game, connectxSearcher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.searcher != nil && a.board == board {
		return a.game, a.searcher
	}

	options := []searcher.Option{
		searcher.WithGoroutines(a.config.Goroutines),
		searcher.WithPlayouts(a.config.Playouts),
		searcher.WithMetrics(),
	}
	if a.config.Seed != 0 {
		options = append(options, searcher.WithSeed(a.config.Seed))
	}

	a.board = board
	a.game = connectx.NewGame(board)
	scorer := connectx.Scorer(board)
	if strings.ToLower(a.config.Algorithm) == MCTS {
		a.searcher = searcher.NewMCTS[connectx.State, connectx.Action, connectx.Result](a.game, scorer, options...)
	} else {
		a.searcher = searcher.NewMinimax[connectx.State, connectx.Action, connectx.Result](a.game, scorer, options...)
	}
	return a.game, a.searcher
}

// dump writes the tree to <outdir>/tree/agent_<id>/<step>.json.
func (a *SearchAgent) dump(decision *searcher.Decision[connectx.State, connectx.Action, connectx.Result], step int) (err error) {
	dir := filepath.Join(a.outdir, "tree", fmt.Sprintf("agent_%d", a.config.ID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create tree directory")
	}
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%d.json", step)))
	if err != nil {
		return errors.Wrap(err, "failed to create tree file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close tree file")
		}
	}()
	return decision.Tree.WriteJSON(f, searcher.Score[connectx.State, connectx.Action, connectx.Result]())
}

func fallback(g *connectx.Game, state connectx.State) (int, metrics.SearchMetric, error) {
	actions := g.AvailableActions(state)
	if len(actions) == 0 {
		return 0, metrics.SearchMetric{}, errors.Wrapf(ErrNoLegalMove, "step %d", state.Step())
	}
	return actions[0].Column, metrics.SearchMetric{}, nil
}
