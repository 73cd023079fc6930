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

const shutdownTimeout = 5 * time.Second

// NewRouter - wires every REST route.
func NewRouter(logger *slog.Logger, gameService gameService) http.Handler {
	router := mux.NewRouter()
	router.Use(recovery(logger))
	router.Use(logging(logger))

	router.HandleFunc("/ping", NewPingHandler().PingHandler).Methods(http.MethodGet)

	gameHandlers := NewHandlers(logger, gameService)

	games := router.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandlers.CreateGame).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandlers.GetGame).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandlers.DeleteGame).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/moves", gameHandlers.SubmitMove).Methods(http.MethodPost)
	games.HandleFunc("/{id}/rounds", gameHandlers.StartNewRound).Methods(http.MethodPost)
	games.HandleFunc("/{id}/reset", gameHandlers.ResetGame).Methods(http.MethodPost)

	return router
}

// Start - serves the handler until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint: contextcheck // parent is already canceled
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
