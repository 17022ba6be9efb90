package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("collecting search metrics", func(t *testing.T) {
		c := NewCollector()
		c.Start("mcts", 4, 2)
		c.AddNodes(8)
		c.AddNodes(2)
		c.AddPlayouts(30)

		got := c.Complete()
		require.Equal(t, "mcts", got.Algorithm)
		require.Equal(t, 4, got.Goroutines)
		require.Equal(t, 2, got.Depth)
		require.Equal(t, 10, got.Nodes)
		require.Equal(t, 30, got.Playouts)
	})

	t.Run("restarting resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start("minimax", 1, 3)
		c.AddNodes(5)
		c.Start("minimax", 1, 3)

		require.Equal(t, 0, c.Complete().Nodes)
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start("mcts", 1, 1)
		c.AddNodes(3)
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "match")
	require.NoError(t, err)

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Algorithm: "minimax", Depth: 3}}))
	require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{
		StartingPlayer: 1, Winner: 2, StartTime: time.Now(), EndTime: time.Now(), TotalMoves: 9,
	}}}))
	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{Game: 1, MoveMetric: MoveMetric{Step: 0, Player: 1, Column: 3}}}))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Equal(t, []string{"id", "algorithm", "depth", "playouts", "goroutines", "seed"}, configs[0])
	require.Equal(t, []string{"1", "minimax", "3", "0", "0", "0"}, configs[1])

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2, "Should write a header and one record")
	require.Equal(t, "2", games[1][4], "Should record the winner mark")

	moves := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, "3", moves[1][3], "Should record the played column")
}
