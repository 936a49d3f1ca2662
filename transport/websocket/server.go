package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gamelobby-backend/internal/coordinator"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second

	sendTimeout = 5 * time.Second
)

type sessionCoordinator interface {
	Connect(playerID string, conn coordinator.Conn)
	Disconnect(playerID string)
	HandleMessage(ctx context.Context, playerID string, data []byte)
}

type Server struct {
	logger      *slog.Logger
	coordinator sessionCoordinator
	upgrader    websocket.Upgrader
}

func New(logger *slog.Logger, coord sessionCoordinator) *Server {
	return &Server{
		logger:      logger.With("component", "websocket"),
		coordinator: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Start - starts the WebSocket server and blocks until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.routes(ctx),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) routes(ctx context.Context) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws/{player_id}", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	return router
}

// handleConnection upgrades the request and pumps inbound messages into the
// coordinator until the peer goes away.
func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	playerID := mux.Vars(r)["player_id"]
	if playerID == "" {
		http.Error(w, "player id is required", http.StatusBadRequest)
		return
	}

	log = log.With("playerID", playerID)

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws)

	that.coordinator.Connect(playerID, conn)
	defer that.coordinator.Disconnect(playerID)

	log.Info("websocket connection established")

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		that.coordinator.HandleMessage(ctx, playerID, data)
	}
}
