package entity

// LobbyCapacity - a lobby holds at most two players; filling it promotes it into a Game.
const LobbyCapacity = 2

// Lobby is a waiting room of 1-2 players pending match formation.
// A lobby is created with its founding member and never exists empty.
type Lobby struct {
	ID        string   `json:"id"`
	CreatorID string   `json:"creator_id"`
	Players   []string `json:"players"`
}

func NewLobby(id, creatorID string) *Lobby {
	return &Lobby{
		ID:        id,
		CreatorID: creatorID,
		Players:   []string{creatorID},
	}
}

func (that *Lobby) HasPlayer(playerID string) bool {
	for _, id := range that.Players {
		if id == playerID {
			return true
		}
	}

	return false
}

func (that *Lobby) IsFull() bool {
	return len(that.Players) >= LobbyCapacity
}

// Clone returns a detached copy so registry internals never leak to callers.
func (that *Lobby) Clone() *Lobby {
	players := make([]string, len(that.Players))
	copy(players, that.Players)

	return &Lobby{
		ID:        that.ID,
		CreatorID: that.CreatorID,
		Players:   players,
	}
}
