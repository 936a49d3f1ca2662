package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/gamelobby-backend/internal/apperror"
	"github.com/rocketscienceinc/gamelobby-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coordinatorStub struct {
	createErr error
	joinErr   error
	lobby     *entity.Lobby
	lobbies   []*entity.Lobby
}

func (that *coordinatorStub) CreateLobby(playerID string) (*entity.Lobby, error) {
	if that.createErr != nil {
		return nil, that.createErr
	}
	return entity.NewLobby("lobby-1", playerID), nil
}

func (that *coordinatorStub) JoinLobby(lobbyID, playerID string) (*entity.Lobby, error) {
	if that.joinErr != nil {
		return nil, that.joinErr
	}
	lobby := entity.NewLobby(lobbyID, "alice")
	lobby.Players = append(lobby.Players, playerID)
	return lobby, nil
}

func (that *coordinatorStub) GetLobby(string) (*entity.Lobby, bool) {
	if that.lobby == nil {
		return nil, false
	}
	return that.lobby, true
}

func (that *coordinatorStub) ListLobbies() []*entity.Lobby {
	return that.lobbies
}

func newTestServer(stub *coordinatorStub) *Server {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), stub)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	return rec
}

func TestHandlers_Ping(t *testing.T) {
	srv := newTestServer(&coordinatorStub{})

	rec := doRequest(t, srv, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandlers_CreateLobby(t *testing.T) {
	t.Run("CreateLobby", func(t *testing.T) {
		// Given: a working coordinator
		srv := newTestServer(&coordinatorStub{})

		// When: a lobby is created
		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies", map[string]string{"creator_id": "alice"})

		// Then: 201 with the lobby payload
		require.Equal(t, http.StatusCreated, rec.Code)

		var lobby entity.Lobby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lobby))
		assert.Equal(t, "alice", lobby.CreatorID)
		assert.Equal(t, []string{"alice"}, lobby.Players)
	})

	t.Run("Error on missing creator_id", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Conflict when the creator already waits elsewhere", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{createErr: apperror.ErrAlreadyInLobby})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies", map[string]string{"creator_id": "alice"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandlers_JoinLobby(t *testing.T) {
	t.Run("JoinLobby", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies/lobby-1/join", map[string]string{"player_id": "bob"})

		require.Equal(t, http.StatusOK, rec.Code)

		var lobby entity.Lobby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lobby))
		assert.Equal(t, []string{"alice", "bob"}, lobby.Players)
	})

	t.Run("Not found for an unknown lobby", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{joinErr: apperror.ErrLobbyNotFound})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies/missing/join", map[string]string{"player_id": "bob"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Conflict on a full lobby", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{joinErr: apperror.ErrLobbyFull})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies/lobby-1/join", map[string]string{"player_id": "carol"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Conflict on joining own lobby", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{joinErr: apperror.ErrSelfJoin})

		rec := doRequest(t, srv, http.MethodPost, "/api/lobbies/lobby-1/join", map[string]string{"player_id": "alice"})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandlers_GetLobby(t *testing.T) {
	t.Run("GetLobby", func(t *testing.T) {
		lobby := entity.NewLobby("lobby-1", "alice")
		srv := newTestServer(&coordinatorStub{lobby: lobby})

		rec := doRequest(t, srv, http.MethodGet, "/api/lobbies/lobby-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var got entity.Lobby
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, lobby.ID, got.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		srv := newTestServer(&coordinatorStub{})

		rec := doRequest(t, srv, http.MethodGet, "/api/lobbies/missing", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlers_ListLobbies(t *testing.T) {
	// Given: two live lobbies
	srv := newTestServer(&coordinatorStub{lobbies: []*entity.Lobby{
		entity.NewLobby("lobby-1", "alice"),
		entity.NewLobby("lobby-2", "bob"),
	}})

	// When: the list is requested
	rec := doRequest(t, srv, http.MethodGet, "/api/lobbies", nil)

	// Then: both lobbies come back
	require.Equal(t, http.StatusOK, rec.Code)

	var lobbies []*entity.Lobby
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lobbies))
	assert.Len(t, lobbies, 2)
}
