package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	logger   *slog.Logger
	handlers *handlers
}

func New(logger *slog.Logger, coord lobbyCoordinator) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		handlers: newHandlers(logger, coord),
	}
}

// Start - starts the HTTP server and blocks until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ping", that.handlers.Ping).Methods(http.MethodGet)
	router.HandleFunc("/api/lobbies", that.handlers.CreateLobby).Methods(http.MethodPost)
	router.HandleFunc("/api/lobbies", that.handlers.ListLobbies).Methods(http.MethodGet)
	router.HandleFunc("/api/lobbies/{id}", that.handlers.GetLobby).Methods(http.MethodGet)
	router.HandleFunc("/api/lobbies/{id}/join", that.handlers.JoinLobby).Methods(http.MethodPost)

	return router
}
