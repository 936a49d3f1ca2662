package entity

// Player holds id-based back-references only; the registries own the
// lobbies and games themselves. LobbyID and GameID are mutually exclusive
// except during the lobby-to-game promotion step.
type Player struct {
	ID      string `json:"id"`
	LobbyID string `json:"lobby_id,omitempty"`
	GameID  string `json:"game_id,omitempty"`
}
