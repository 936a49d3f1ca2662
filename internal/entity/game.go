package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
)

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 3
)

// Game is a single two-player match: board, turn ownership and terminal outcome.
// The first player always plays X and moves first.
type Game struct {
	ID      string
	PlayerX string
	PlayerO string
	Board   [BoardSize][BoardSize]string
	Turn    string // id of the player whose move is valid; empty once the game is over
	Winner  string // id of the winning player
	IsDraw  bool
}

// GameState is a read-only projection of a Game, safe to hand out and to
// serialize for clients. Player ids are carried for fan-out but stay off the wire.
type GameState struct {
	GameID        string                       `json:"game_id"`
	Board         [BoardSize][BoardSize]string `json:"board"`
	CurrentPlayer string                       `json:"current_player,omitempty"`
	Winner        string                       `json:"winner,omitempty"`
	IsDraw        bool                         `json:"is_draw"`

	PlayerX string `json:"-"`
	PlayerO string `json:"-"`
}

func NewGame(id, playerX, playerO string) *Game {
	return &Game{
		ID:      id,
		PlayerX: playerX,
		PlayerO: playerO,
		Turn:    playerX,
	}
}

// MakeMove validates and applies a move for playerID. On rejection the board
// is left untouched and a sentinel error from apperror describes the reason.
func (that *Game) MakeMove(playerID string, row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerID {
		return apperror.ErrNotYourTurn
	}

	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfRange, row, col)
	}

	if that.Board[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	mark := that.markOf(playerID)
	that.Board[row][col] = mark

	// win is checked before draw: a filled board with a winning line is a win
	if that.hasWinningLine(mark) {
		that.Winner = playerID
		that.Turn = ""
		return nil
	}

	if that.isBoardFull() {
		that.IsDraw = true
		that.Turn = ""
		return nil
	}

	that.Turn = that.Opponent(playerID)

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Winner != "" || that.IsDraw
}

func (that *Game) HasPlayer(playerID string) bool {
	return playerID == that.PlayerX || playerID == that.PlayerO
}

func (that *Game) Opponent(playerID string) string {
	if playerID == that.PlayerX {
		return that.PlayerO
	}
	return that.PlayerX
}

func (that *Game) Snapshot() GameState {
	return GameState{
		GameID:        that.ID,
		Board:         that.Board,
		CurrentPlayer: that.Turn,
		Winner:        that.Winner,
		IsDraw:        that.IsDraw,
		PlayerX:       that.PlayerX,
		PlayerO:       that.PlayerO,
	}
}

func (that *Game) markOf(playerID string) string {
	if playerID == that.PlayerX {
		return MarkX
	}
	return MarkO
}

func (that *Game) hasWinningLine(mark string) bool {
	for i := 0; i < BoardSize; i++ {
		if that.Board[i][0] == mark && that.Board[i][1] == mark && that.Board[i][2] == mark {
			return true
		}
		if that.Board[0][i] == mark && that.Board[1][i] == mark && that.Board[2][i] == mark {
			return true
		}
	}

	if that.Board[0][0] == mark && that.Board[1][1] == mark && that.Board[2][2] == mark {
		return true
	}
	if that.Board[0][2] == mark && that.Board[1][1] == mark && that.Board[2][0] == mark {
		return true
	}

	return false
}

func (that *Game) isBoardFull() bool {
	for _, row := range that.Board {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// IsTerminal reports whether a projected state describes a finished game.
func (that GameState) IsTerminal() bool {
	return that.Winner != "" || that.IsDraw
}
