package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/rocketscienceinc/gamelobby-backend/internal/entity"
)

// LobbyRegistry owns every live lobby. All compound checks run under one
// mutex so that "player is in at most one lobby" holds under concurrent joins.
type LobbyRegistry struct {
	mu      sync.RWMutex
	lobbies map[string]*entity.Lobby
}

func NewLobbyRegistry() *LobbyRegistry {
	return &LobbyRegistry{
		lobbies: make(map[string]*entity.Lobby),
	}
}

// CreateLobby creates a singleton lobby founded by playerID.
func (that *LobbyRegistry) CreateLobby(playerID string) (*entity.Lobby, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.lobbyOf(playerID) != nil {
		return nil, apperror.ErrAlreadyInLobby
	}

	lobby := entity.NewLobby(uuid.NewString(), playerID)
	that.lobbies[lobby.ID] = lobby

	return lobby.Clone(), nil
}

// JoinLobby appends playerID to the lobby. The returned flag is true exactly
// once per fill event and signals that the lobby is ready for promotion.
func (that *LobbyRegistry) JoinLobby(lobbyID, playerID string) (*entity.Lobby, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	lobby, ok := that.lobbies[lobbyID]
	if !ok {
		return nil, false, apperror.ErrLobbyNotFound
	}

	if lobby.HasPlayer(playerID) {
		return nil, false, apperror.ErrSelfJoin
	}

	if that.lobbyOf(playerID) != nil {
		return nil, false, apperror.ErrAlreadyInLobby
	}

	if lobby.IsFull() {
		return nil, false, apperror.ErrLobbyFull
	}

	lobby.Players = append(lobby.Players, playerID)

	return lobby.Clone(), lobby.IsFull(), nil
}

// LeaveLobby removes the player from whichever lobby contains them and deletes
// the lobby once it is empty. Calling it for a player in no lobby is a no-op.
func (that *LobbyRegistry) LeaveLobby(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	lobby := that.lobbyOf(playerID)
	if lobby == nil {
		return
	}

	members := lobby.Players[:0]
	for _, id := range lobby.Players {
		if id != playerID {
			members = append(members, id)
		}
	}
	lobby.Players = members

	if len(lobby.Players) == 0 {
		delete(that.lobbies, lobby.ID)
	}
}

// TakeIfFull atomically removes and returns the lobby when it holds two
// players. Promotion consumes the lobby, so a second call finds nothing.
func (that *LobbyRegistry) TakeIfFull(lobbyID string) (*entity.Lobby, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	lobby, ok := that.lobbies[lobbyID]
	if !ok || !lobby.IsFull() {
		return nil, false
	}

	delete(that.lobbies, lobbyID)

	return lobby.Clone(), true
}

func (that *LobbyRegistry) GetLobby(lobbyID string) (*entity.Lobby, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	lobby, ok := that.lobbies[lobbyID]
	if !ok {
		return nil, false
	}

	return lobby.Clone(), true
}

// ListLobbies returns an unordered snapshot of the live lobbies.
func (that *LobbyRegistry) ListLobbies() []*entity.Lobby {
	that.mu.RLock()
	defer that.mu.RUnlock()

	lobbies := make([]*entity.Lobby, 0, len(that.lobbies))
	for _, lobby := range that.lobbies {
		lobbies = append(lobbies, lobby.Clone())
	}

	return lobbies
}

// lobbyOf must be called with the mutex held.
func (that *LobbyRegistry) lobbyOf(playerID string) *entity.Lobby {
	for _, lobby := range that.lobbies {
		if lobby.HasPlayer(playerID) {
			return lobby
		}
	}

	return nil
}
