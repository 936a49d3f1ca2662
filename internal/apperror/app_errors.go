package apperror

import "errors"

var (
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrAlreadyInLobby = errors.New("player is already in a lobby")
	ErrLobbyFull      = errors.New("lobby is already full")
	ErrSelfJoin       = errors.New("player is already in this lobby")

	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrOutOfRange   = errors.New("move is out of range")

	ErrMissingField = errors.New("required field is missing")
)
