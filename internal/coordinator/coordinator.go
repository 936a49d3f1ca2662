package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/rocketscienceinc/gamelobby-backend/internal/entity"
	"github.com/rocketscienceinc/gamelobby-backend/internal/registry"
)

// Conn is the write side of a player's connection. Sends are best-effort:
// a failed send never stops delivery to the other participant.
type Conn interface {
	Send(v any) error
	Close() error
}

type resultArchive interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// session ties a connected player to its connection handle. The coordinator
// mutex guards both the session map and the player back-references.
type session struct {
	player *entity.Player
	conn   Conn
}

// Coordinator routes inbound messages to their handlers, mediates between the
// lobby and game registries, fans out state broadcasts and unwinds state on
// disconnect.
type Coordinator struct {
	logger  *slog.Logger
	lobbies *registry.LobbyRegistry
	games   *registry.GameRegistry
	archive resultArchive

	mu       sync.RWMutex
	sessions map[string]*session
}

func New(logger *slog.Logger, lobbies *registry.LobbyRegistry, games *registry.GameRegistry, archive resultArchive) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		lobbies:  lobbies,
		games:    games,
		archive:  archive,
		sessions: make(map[string]*session),
	}
}

// Connect registers a player's connection. A reconnect with the same id
// replaces the stale connection.
func (that *Coordinator) Connect(playerID string, conn Conn) {
	log := that.logger.With("method", "Connect", "playerID", playerID)

	that.mu.Lock()
	if old, ok := that.sessions[playerID]; ok {
		_ = old.conn.Close()
	}
	that.sessions[playerID] = &session{
		player: &entity.Player{ID: playerID},
		conn:   conn,
	}
	that.mu.Unlock()

	log.Info("player connected")
}

// Disconnect unwinds the player's lobby and game membership and discards the
// session. It is idempotent; once it begins, no further messages for the id
// are dispatched.
func (that *Coordinator) Disconnect(playerID string) {
	log := that.logger.With("method", "Disconnect", "playerID", playerID)

	that.mu.Lock()
	sess, ok := that.sessions[playerID]
	if !ok {
		that.mu.Unlock()
		return
	}
	delete(that.sessions, playerID)
	gameID := sess.player.GameID
	that.mu.Unlock()

	that.lobbies.LeaveLobby(playerID)

	// source behavior: the opponent's game ends abruptly, no forfeit win is granted
	if gameID != "" {
		if state, removed := that.games.RemoveGame(gameID); removed {
			that.clearGameRefs(state)
			log.Info("game abandoned", "gameID", gameID)
		}
	}

	_ = sess.conn.Close()

	log.Info("player disconnected")
}

// HandleMessage dispatches one inbound message for playerID. Messages for
// unknown (already disconnected) players are dropped.
func (that *Coordinator) HandleMessage(ctx context.Context, playerID string, data []byte) {
	log := that.logger.With("method", "HandleMessage", "playerID", playerID)

	sess := that.getSession(playerID)
	if sess == nil {
		log.Debug("message for unknown player dropped")
		return
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error("failed to unmarshal message", "error", err)
		that.send(sess.conn, newErrorMessage("invalid message"))
		return
	}

	switch msg.Type {
	case messageTypeStartGame:
		that.handleStartGame(sess, &msg)
	case messageTypeMakeMove:
		that.handleMakeMove(ctx, sess, &msg)
	default:
		that.send(sess.conn, newErrorMessage(fmt.Sprintf("unsupported message type: %q", msg.Type)))
	}
}

// CreateLobby opens a singleton lobby founded by playerID.
func (that *Coordinator) CreateLobby(playerID string) (*entity.Lobby, error) {
	lobby, err := that.lobbies.CreateLobby(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create lobby: %w", err)
	}

	that.setLobbyRef(playerID, lobby.ID)

	return lobby, nil
}

// JoinLobby seats playerID in the lobby and, when the second seat fills,
// promotes the lobby into a game. Promotion is automatic on fill; the
// start_game message is only an idempotent confirmation.
func (that *Coordinator) JoinLobby(lobbyID, playerID string) (*entity.Lobby, error) {
	lobby, full, err := that.lobbies.JoinLobby(lobbyID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to join lobby: %w", err)
	}

	that.setLobbyRef(playerID, lobbyID)

	if full {
		if taken, ok := that.lobbies.TakeIfFull(lobbyID); ok {
			that.promote(taken)
		}
	}

	return lobby, nil
}

func (that *Coordinator) GetLobby(lobbyID string) (*entity.Lobby, bool) {
	return that.lobbies.GetLobby(lobbyID)
}

func (that *Coordinator) ListLobbies() []*entity.Lobby {
	return that.lobbies.ListLobbies()
}

func (that *Coordinator) handleStartGame(sess *session, msg *Message) {
	log := that.logger.With("method", "handleStartGame", "playerID", sess.player.ID)

	if msg.LobbyID == "" {
		that.send(sess.conn, newErrorMessage("lobby id is required"))
		return
	}

	// the lobby was already promoted: confirm by re-sending the current state
	that.mu.RLock()
	gameID := sess.player.GameID
	that.mu.RUnlock()

	if gameID != "" {
		if state, ok := that.games.GetState(gameID); ok {
			that.send(sess.conn, newStateMessage(state))
			return
		}
	}

	if lobby, ok := that.lobbies.TakeIfFull(msg.LobbyID); ok {
		that.promote(lobby)
		return
	}

	if _, ok := that.lobbies.GetLobby(msg.LobbyID); ok {
		that.send(sess.conn, newErrorMessage("lobby must have 2 players"))
		return
	}

	log.Info("start requested for unknown lobby", "lobbyID", msg.LobbyID)
	that.send(sess.conn, newErrorMessage("lobby not found"))
}

func (that *Coordinator) handleMakeMove(ctx context.Context, sess *session, msg *Message) {
	log := that.logger.With("method", "handleMakeMove", "playerID", sess.player.ID)

	if msg.GameID == "" {
		that.send(sess.conn, newErrorMessage("game id is required"))
		return
	}

	that.mu.RLock()
	gameID := sess.player.GameID
	that.mu.RUnlock()

	if gameID == "" {
		that.send(sess.conn, newErrorMessage("you are not in a game"))
		return
	}

	if gameID != msg.GameID {
		that.send(sess.conn, newErrorMessage("not your game"))
		return
	}

	if msg.Row == nil || msg.Col == nil {
		that.send(sess.conn, newErrorMessage("move coordinates are required"))
		return
	}

	state, err := that.games.ApplyMove(gameID, sess.player.ID, *msg.Row, *msg.Col)
	if err != nil {
		that.send(sess.conn, newErrorMessage(moveErrorText(err)))
		return
	}

	that.broadcastState(state)

	if state.IsTerminal() {
		that.finishGame(ctx, state)
		log.Info("game finished", "gameID", state.GameID, "winner", state.Winner, "isDraw", state.IsDraw)
	}
}

// promote turns a full lobby into a game: both players' lobby reference is
// swapped for the game reference in one step, then both are redirected and
// sent the initial state.
func (that *Coordinator) promote(lobby *entity.Lobby) {
	log := that.logger.With("method", "promote", "lobbyID", lobby.ID)

	if len(lobby.Players) != entity.LobbyCapacity {
		log.Warn("promotion of a non-full lobby skipped", "players", len(lobby.Players))
		return
	}

	state := that.games.CreateGame(lobby.Players[0], lobby.Players[1])

	type delivery struct {
		conn     Conn
		playerID string
	}
	deliveries := make([]delivery, 0, entity.LobbyCapacity)

	that.mu.Lock()
	for _, playerID := range lobby.Players {
		sess, ok := that.sessions[playerID]
		if !ok {
			continue
		}
		sess.player.LobbyID = ""
		sess.player.GameID = state.GameID
		deliveries = append(deliveries, delivery{conn: sess.conn, playerID: playerID})
	}
	that.mu.Unlock()

	for _, d := range deliveries {
		url := fmt.Sprintf("/game.html?game_id=%s&player_id=%s", state.GameID, d.playerID)
		that.send(d.conn, newRedirectMessage(url))
		that.send(d.conn, newStateMessage(state))
	}

	log.Info("lobby promoted", "gameID", state.GameID)
}

// finishGame tears the game down after its terminal broadcast and records the
// result. The archive write is best-effort and never surfaces to players.
func (that *Coordinator) finishGame(ctx context.Context, state entity.GameState) {
	log := that.logger.With("method", "finishGame", "gameID", state.GameID)

	that.games.RemoveGame(state.GameID)
	that.clearGameRefs(state)

	result := &entity.GameResult{
		GameID:     state.GameID,
		PlayerX:    state.PlayerX,
		PlayerO:    state.PlayerO,
		Winner:     state.Winner,
		IsDraw:     state.IsDraw,
		FinishedAt: time.Now().UTC(),
	}

	if err := that.archive.Save(ctx, result); err != nil {
		log.Error("failed to archive game result", "error", err)
	}
}

// broadcastState fans the same snapshot out to both participants. Connections
// are collected under the lock, sends happen after it is released.
func (that *Coordinator) broadcastState(state entity.GameState) {
	conns := make([]Conn, 0, 2)

	that.mu.RLock()
	for _, playerID := range []string{state.PlayerX, state.PlayerO} {
		if sess, ok := that.sessions[playerID]; ok {
			conns = append(conns, sess.conn)
		}
	}
	that.mu.RUnlock()

	msg := newStateMessage(state)
	for _, conn := range conns {
		that.send(conn, msg)
	}
}

// clearGameRefs drops both participants' game reference, leaving them
// eligible to start a new lobby.
func (that *Coordinator) clearGameRefs(state entity.GameState) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, playerID := range []string{state.PlayerX, state.PlayerO} {
		if sess, ok := that.sessions[playerID]; ok && sess.player.GameID == state.GameID {
			sess.player.GameID = ""
		}
	}
}

// setLobbyRef records the lobby back-reference when the player is connected.
// Lobby membership itself lives in the registry, so a missing session is fine.
// A player already holding a game reference keeps it; the two references are
// mutually exclusive.
func (that *Coordinator) setLobbyRef(playerID, lobbyID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok {
		return
	}

	if sess.player.GameID != "" {
		that.logger.Warn("lobby reference skipped for player already in a game",
			"playerID", playerID, "lobbyID", lobbyID, "gameID", sess.player.GameID)
		return
	}

	sess.player.LobbyID = lobbyID
}

func (that *Coordinator) getSession(playerID string) *session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.sessions[playerID]
}

func (that *Coordinator) send(conn Conn, v any) {
	if err := conn.Send(v); err != nil {
		that.logger.Error("failed to send message", "error", err)
	}
}

func moveErrorText(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return "game not found"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game is already over"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "it's not your turn"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell is already occupied"
	case errors.Is(err, apperror.ErrOutOfRange):
		return "move is out of range"
	default:
		return "invalid move"
	}
}
