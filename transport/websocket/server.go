package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

const shutdownTimeout = 5 * time.Second

const (
	ActionNewGame   = "game:new"
	ActionGetGame   = "game:get"
	ActionTurn      = "game:turn"
	ActionNewRound  = "game:round"
	ActionResetGame = "game:reset"
	ActionError     = "error"
)

type gameService interface {
	CreateGame(ctx context.Context, params service.NewGameParams) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SubmitMove(ctx context.Context, id string, row, column int) (*entity.Game, error)
	StartNewRound(ctx context.Context, id string) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

// connection - a client socket, writes are serialized.
type connection struct {
	mu     sync.Mutex
	writer *bufio.Writer
}

func newConnection(writer io.Writer) *connection {
	return &connection{writer: bufio.NewWriter(writer)}
}

func (that *connection) send(action string, payload ResponsePayload) error {
	data, err := encodeMessage(action, payload)
	if err != nil {
		return err
	}

	return that.writeFrame(textFrame(data))
}

func (that *connection) writeFrame(frameData frame) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := writeFrame(that.writer, frameData); err != nil {
		return err
	}

	if err := that.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush frame: %w", err)
	}

	return nil
}

type Server struct {
	logger      *slog.Logger
	gameService gameService

	handlers map[string]handlerFunc

	subscribers      map[string]map[*connection]struct{}
	subscribersMutex sync.RWMutex
}

func New(logger *slog.Logger, gameService gameService) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameService: gameService,

		handlers:    make(map[string]handlerFunc),
		subscribers: make(map[string]map[*connection]struct{}),
	}

	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionGetGame] = server.handleGetGame
	server.handlers[ActionTurn] = server.handleGameTurn
	server.handlers[ActionNewRound] = server.handleNewRound
	server.handlers[ActionResetGame] = server.handleResetGame

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	router := mux.NewRouter()
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	if key == "" {
		http.Error(writer, "missing Sec-WebSocket-Key", http.StatusBadRequest)
		return
	}

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	// hijacked connections keep the server deadlines
	_ = conn.SetDeadline(time.Time{})

	if err = writeHandshake(bufrw, key); err != nil {
		log.Error("failed to upgrade", "error", err)
		return
	}

	if err = bufrw.Flush(); err != nil {
		log.Error("failed to upgrade", "error", err)
		return
	}

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(ctx, bufrw.Reader, newConnection(conn)); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, reader io.Reader, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	defer that.unsubscribeAll(conn)

	for {
		reqBody, err := that.readMessage(reader, conn)
		if errors.Is(err, ErrConnectionClosed) || errors.Is(err, io.EOF) {
			log.Info("client disconnected")
			return nil
		}

		if err != nil {
			return err
		}

		that.dispatch(ctx, reqBody, conn)
	}
}

// dispatch - routes one text message to its handler.
func (that *Server) dispatch(ctx context.Context, reqBody []byte, conn *connection) {
	log := that.logger.With("method", "dispatch")

	var message Message
	if err := json.Unmarshal(reqBody, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		_ = that.sendErrorResponse(conn, ActionError, errInvalidMessage)
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		_ = that.sendErrorResponse(conn, message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action))
		return
	}

	if err := handler(ctx, &message, conn); err != nil {
		log.Error("error processing message", "action", message.Action, "error", err)
	}
}

// readMessage - reads frames until a complete text message arrives, answering control frames.
func (that *Server) readMessage(reader io.Reader, conn *connection) ([]byte, error) {
	var message []byte

	for {
		frameData, err := readFrame(reader)
		if err != nil {
			return nil, err
		}

		switch frameData.opCode {
		case opClose:
			_ = conn.writeFrame(frame{isFin: true, opCode: opClose})
			return nil, ErrConnectionClosed
		case opPing:
			if err = conn.writeFrame(frame{isFin: true, opCode: opPong, length: frameData.length, payload: frameData.payload}); err != nil {
				return nil, err
			}
			continue
		case opPong:
			continue
		case opText, opBinary, opContinuation:
			message = append(message, frameData.payload...)
		}

		if len(message) > maxMessageSize {
			return nil, ErrMessageTooLarge
		}

		if frameData.isFin {
			return message, nil
		}
	}
}

func (that *Server) subscribe(gameID string, conn *connection) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	conns, ok := that.subscribers[gameID]
	if !ok {
		conns = make(map[*connection]struct{})
		that.subscribers[gameID] = conns
	}

	conns[conn] = struct{}{}
}

func (that *Server) unsubscribeAll(conn *connection) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	for gameID, conns := range that.subscribers {
		delete(conns, conn)

		if len(conns) == 0 {
			delete(that.subscribers, gameID)
		}
	}
}

// broadcast - pushes the game state to every connection watching it.
func (that *Server) broadcast(action string, game *entity.Game) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)

	that.subscribersMutex.RLock()
	conns := make([]*connection, 0, len(that.subscribers[game.ID]))
	for conn := range that.subscribers[game.ID] {
		conns = append(conns, conn)
	}
	that.subscribersMutex.RUnlock()

	for _, conn := range conns {
		if err := that.sendGame(conn, action, game); err != nil {
			log.Warn("failed to send game update", "error", err)
		}
	}
}
