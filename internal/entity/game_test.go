package entity

import (
	"testing"

	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// When: create a new game instance
	game := NewGame("g1", "alice", "bob")

	// Then: the first player moves first and the board is empty
	require.NotNil(t, game)
	assert.Equal(t, "alice", game.Turn)
	assert.Empty(t, game.Winner)
	assert.False(t, game.IsDraw)

	for _, row := range game.Board {
		for _, cell := range row {
			assert.Equal(t, EmptyCell, cell)
		}
	}
}

func TestGame_MakeMove(t *testing.T) {
	t.Run("MakeMove", func(t *testing.T) {
		// Given: a new game
		game := NewGame("g1", "alice", "bob")

		// When: the first player moves
		err := game.MakeMove("alice", 0, 0)

		// Then: the cell carries X and the turn flips to the second player
		require.NoError(t, err)
		assert.Equal(t, MarkX, game.Board[0][0])
		assert.Equal(t, "bob", game.Turn)
	})

	t.Run("Error on playing out of turn", func(t *testing.T) {
		// Given: a new game
		game := NewGame("g1", "alice", "bob")

		// When: the second player tries to move first
		err := game.MakeMove("bob", 0, 0)

		// Then: ErrNotYourTurn is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, EmptyCell, game.Board[0][0])
		assert.Equal(t, "alice", game.Turn)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game where the first player took the corner
		game := NewGame("g1", "alice", "bob")
		require.NoError(t, game.MakeMove("alice", 0, 0))

		// When: the second player targets the same cell
		err := game.MakeMove("bob", 0, 0)

		// Then: ErrCellOccupied is returned and the mark is untouched
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, MarkX, game.Board[0][0])
		assert.Equal(t, "bob", game.Turn)
	})

	t.Run("Error on out of range move", func(t *testing.T) {
		// Given: a new game
		game := NewGame("g1", "alice", "bob")

		// When: a coordinate outside 0..2 is played
		err := game.MakeMove("alice", 3, 0)

		// Then: ErrOutOfRange is returned
		require.ErrorIs(t, err, apperror.ErrOutOfRange)

		// When: a negative coordinate is played
		err = game.MakeMove("alice", 0, -1)

		// Then: ErrOutOfRange is returned again
		require.ErrorIs(t, err, apperror.ErrOutOfRange)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		// Given: a game won by the first player
		game := NewGame("g1", "alice", "bob")
		playWinForX(t, game)

		// When: another move arrives
		err := game.MakeMove("bob", 2, 2)

		// Then: ErrGameFinished is returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGame_WinDetection(t *testing.T) {
	t.Run("Top row win is a win, not a draw", func(t *testing.T) {
		// Given: a board heading for [[X,X,X],[O,O,_],[_,_,_]]
		game := NewGame("g1", "alice", "bob")

		require.NoError(t, game.MakeMove("alice", 0, 0))
		require.NoError(t, game.MakeMove("bob", 1, 0))
		require.NoError(t, game.MakeMove("alice", 0, 1))
		require.NoError(t, game.MakeMove("bob", 1, 1))

		// When: the first player completes the top row
		require.NoError(t, game.MakeMove("alice", 0, 2))

		// Then: the first player wins and no draw is reported
		assert.Equal(t, "alice", game.Winner)
		assert.False(t, game.IsDraw)
		assert.True(t, game.IsFinished())
		assert.Empty(t, game.Turn)
	})

	t.Run("Column win", func(t *testing.T) {
		game := NewGame("g1", "alice", "bob")

		require.NoError(t, game.MakeMove("alice", 0, 0))
		require.NoError(t, game.MakeMove("bob", 0, 1))
		require.NoError(t, game.MakeMove("alice", 1, 0))
		require.NoError(t, game.MakeMove("bob", 0, 2))
		require.NoError(t, game.MakeMove("alice", 2, 0))

		assert.Equal(t, "alice", game.Winner)
	})

	t.Run("Diagonal win for the second player", func(t *testing.T) {
		game := NewGame("g1", "alice", "bob")

		require.NoError(t, game.MakeMove("alice", 0, 1))
		require.NoError(t, game.MakeMove("bob", 0, 0))
		require.NoError(t, game.MakeMove("alice", 0, 2))
		require.NoError(t, game.MakeMove("bob", 1, 1))
		require.NoError(t, game.MakeMove("alice", 2, 1))
		require.NoError(t, game.MakeMove("bob", 2, 2))

		assert.Equal(t, "bob", game.Winner)
		assert.False(t, game.IsDraw)
	})
}

func TestGame_DrawDetection(t *testing.T) {
	// Given: a full board with no three-in-a-row
	// X O X
	// X O O
	// O X X
	game := NewGame("g1", "alice", "bob")

	moves := []struct {
		player   string
		row, col int
	}{
		{"alice", 0, 0}, {"bob", 0, 1},
		{"alice", 0, 2}, {"bob", 1, 1},
		{"alice", 1, 0}, {"bob", 1, 2},
		{"alice", 2, 1}, {"bob", 2, 0},
		{"alice", 2, 2},
	}

	for _, move := range moves {
		require.NoError(t, game.MakeMove(move.player, move.row, move.col))
	}

	// Then: the game is a draw with no winner
	assert.True(t, game.IsDraw)
	assert.Empty(t, game.Winner)
	assert.True(t, game.IsFinished())
}

func TestGame_Snapshot(t *testing.T) {
	// Given: an in-progress game
	game := NewGame("g1", "alice", "bob")
	require.NoError(t, game.MakeMove("alice", 1, 1))

	// When: a snapshot is taken
	state := game.Snapshot()

	// Then: it mirrors the game and carries the participants
	assert.Equal(t, "g1", state.GameID)
	assert.Equal(t, MarkX, state.Board[1][1])
	assert.Equal(t, "bob", state.CurrentPlayer)
	assert.Equal(t, "alice", state.PlayerX)
	assert.Equal(t, "bob", state.PlayerO)
	assert.False(t, state.IsTerminal())

	// Then: mutating the snapshot leaves the game untouched
	state.Board[0][0] = MarkO
	assert.Equal(t, EmptyCell, game.Board[0][0])
}

// playWinForX drives the game to a quick win for the first player.
func playWinForX(t *testing.T, game *Game) {
	t.Helper()

	require.NoError(t, game.MakeMove("alice", 0, 0))
	require.NoError(t, game.MakeMove("bob", 1, 0))
	require.NoError(t, game.MakeMove("alice", 0, 1))
	require.NoError(t, game.MakeMove("bob", 1, 1))
	require.NoError(t, game.MakeMove("alice", 0, 2))
}
