package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/rocketscienceinc/gamelobby-backend/internal/entity"
)

type lobbyCoordinator interface {
	CreateLobby(playerID string) (*entity.Lobby, error)
	JoinLobby(lobbyID, playerID string) (*entity.Lobby, error)
	GetLobby(lobbyID string) (*entity.Lobby, bool)
	ListLobbies() []*entity.Lobby
}

type createLobbyRequest struct {
	CreatorID string `json:"creator_id"`
}

type joinLobbyRequest struct {
	PlayerID string `json:"player_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	coordinator lobbyCoordinator
}

func newHandlers(logger *slog.Logger, coord lobbyCoordinator) *handlers {
	return &handlers{
		logger:      logger.With("component", "rest-handlers"),
		coordinator: coord,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *handlers) CreateLobby(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateLobby")

	var req createLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CreatorID == "" {
		writeError(w, http.StatusBadRequest, "creator_id is required")
		return
	}

	lobby, err := that.coordinator.CreateLobby(req.CreatorID)
	if err != nil {
		log.Error("failed to create lobby", "creatorID", req.CreatorID, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, lobby)
}

func (that *handlers) ListLobbies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.coordinator.ListLobbies())
}

func (that *handlers) GetLobby(w http.ResponseWriter, r *http.Request) {
	lobbyID := mux.Vars(r)["id"]

	lobby, ok := that.coordinator.GetLobby(lobbyID)
	if !ok {
		writeError(w, http.StatusNotFound, "lobby not found")
		return
	}

	writeJSON(w, http.StatusOK, lobby)
}

func (that *handlers) JoinLobby(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "JoinLobby")

	lobbyID := mux.Vars(r)["id"]

	var req joinLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	lobby, err := that.coordinator.JoinLobby(lobbyID, req.PlayerID)
	if err != nil {
		log.Error("failed to join lobby", "lobbyID", lobbyID, "playerID", req.PlayerID, "error", err)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lobby)
}

func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrLobbyNotFound):
		writeError(w, http.StatusNotFound, "lobby not found")
	case errors.Is(err, apperror.ErrAlreadyInLobby):
		writeError(w, http.StatusConflict, "player is already in a lobby")
	case errors.Is(err, apperror.ErrSelfJoin):
		writeError(w, http.StatusConflict, "player is already in this lobby")
	case errors.Is(err, apperror.ErrLobbyFull):
		writeError(w, http.StatusConflict, "lobby is already full")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
