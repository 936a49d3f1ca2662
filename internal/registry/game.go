package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/rocketscienceinc/gamelobby-backend/internal/entity"
)

// GameRegistry owns every live game. Moves against one game are serialized
// through the registry mutex, which makes the turn-owner check race-free.
type GameRegistry struct {
	mu    sync.Mutex
	games map[string]*entity.Game
}

func NewGameRegistry() *GameRegistry {
	return &GameRegistry{
		games: make(map[string]*entity.Game),
	}
}

// CreateGame registers a fresh game; playerX takes the first move.
func (that *GameRegistry) CreateGame(playerX, playerO string) entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	game := entity.NewGame(uuid.NewString(), playerX, playerO)
	that.games[game.ID] = game

	return game.Snapshot()
}

// ApplyMove delegates to the game's move validation and returns the resulting
// snapshot. The board stays unchanged when the move is rejected.
func (that *GameRegistry) ApplyMove(gameID, playerID string, row, col int) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[gameID]
	if !ok {
		return entity.GameState{}, fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, gameID)
	}

	if err := game.MakeMove(playerID, row, col); err != nil {
		return entity.GameState{}, err
	}

	return game.Snapshot(), nil
}

func (that *GameRegistry) GetState(gameID string) (entity.GameState, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[gameID]
	if !ok {
		return entity.GameState{}, false
	}

	return game.Snapshot(), true
}

// RemoveGame deletes the game and returns its last snapshot. It is idempotent:
// removing an unknown id reports ok=false and changes nothing.
func (that *GameRegistry) RemoveGame(gameID string) (entity.GameState, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[gameID]
	if !ok {
		return entity.GameState{}, false
	}

	delete(that.games, gameID)

	return game.Snapshot(), true
}
