package coordinator

import "github.com/rocketscienceinc/gamelobby-backend/internal/entity"

const (
	messageTypeStartGame = "start_game"
	messageTypeMakeMove  = "make_move"

	messageTypeGameState = "game_state"
	messageTypeError     = "error"
	messageTypeRedirect  = "redirect"
)

// Message is the inbound envelope. Row and Col are pointers so that an absent
// coordinate is distinguishable from a move at 0.
type Message struct {
	Type    string `json:"type"`
	LobbyID string `json:"lobby_id,omitempty"`
	GameID  string `json:"game_id,omitempty"`
	Row     *int   `json:"row,omitempty"`
	Col     *int   `json:"col,omitempty"`
}

type StateMessage struct {
	Type string `json:"type"`
	entity.GameState
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type RedirectMessage struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func newStateMessage(state entity.GameState) StateMessage {
	return StateMessage{Type: messageTypeGameState, GameState: state}
}

func newErrorMessage(text string) ErrorMessage {
	return ErrorMessage{Type: messageTypeError, Message: text}
}

func newRedirectMessage(url string) RedirectMessage {
	return RedirectMessage{Type: messageTypeRedirect, URL: url}
}
