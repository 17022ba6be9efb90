package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mockResult struct {
	winner Turn
	draw   bool
}

func (r mockResult) Winner() (Turn, bool) { return r.winner, !r.draw }

func TestTurn(t *testing.T) {
	require.Equal(t, Opponent, Player.Other())
	require.Equal(t, Player, Opponent.Other())
	require.Equal(t, "PLAYER", Player.String())
	require.Equal(t, "OPPONENT", Opponent.String())
}

func TestOutcome(t *testing.T) {
	t.Run("mapping terminal scores", func(t *testing.T) {
		require.Equal(t, Win, Outcome(1_000_000))
		require.Equal(t, Draw, Outcome(0))
		require.Equal(t, Loss, Outcome(-10_000))
	})

	t.Run("mapping terminal results", func(t *testing.T) {
		require.Equal(t, Win, OutcomeOf(mockResult{winner: Player}))
		require.Equal(t, Loss, OutcomeOf(mockResult{winner: Opponent}))
		require.Equal(t, Draw, OutcomeOf(mockResult{draw: true}))
	})
}
