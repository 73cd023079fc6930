package websocket

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) CreateGame(ctx context.Context, params service.NewGameParams) (*entity.Game, error) {
	args := that.Called(ctx, params)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) SubmitMove(ctx context.Context, id string, row, column int) (*entity.Game, error) {
	args := that.Called(ctx, id, row, column)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) StartNewRound(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func newTestServer(t *testing.T) (*Server, *mockGameService) {
	t.Helper()

	gameService := &mockGameService{}
	t.Cleanup(func() {
		gameService.AssertExpectations(t)
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return New(logger, gameService), gameService
}

// clientFrame - encodes a masked frame the way a browser sends it.
func clientFrame(opCode byte, fin bool, payload []byte) []byte {
	first := opCode
	if fin {
		first |= 0x80
	}

	data := []byte{first}

	switch {
	case len(payload) < 126:
		data = append(data, 0x80|byte(len(payload)))
	default:
		data = append(data, 0x80|126)
		data = binary.BigEndian.AppendUint16(data, uint16(len(payload)))
	}

	mask := []byte{0x37, 0xfa, 0x21, 0x3d}
	data = append(data, mask...)

	for i, b := range payload {
		data = append(data, b^mask[i%4])
	}

	return data
}

func clientMessage(t *testing.T, action string, payload any) []byte {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(Message{Action: action, Payload: raw})
	require.NoError(t, err)

	return clientFrame(opText, true, body)
}

// readResponses - decodes every frame the server wrote.
func readResponses(t *testing.T, output *bytes.Buffer) []Message {
	t.Helper()

	var messages []Message
	for output.Len() > 0 {
		frameData, err := readFrame(output)
		require.NoError(t, err)

		if frameData.opCode != opText {
			continue
		}

		var message Message
		require.NoError(t, json.Unmarshal(frameData.payload, &message))
		messages = append(messages, message)
	}

	return messages
}

func decodeResponse(t *testing.T, message Message) ResponsePayload {
	t.Helper()

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return payload
}

func sampleGame() *entity.Game {
	game := &entity.Game{
		ID:          "game-1",
		Players:     [2]entity.Player{entity.NewPlayer("Ann", entity.SeatA), entity.NewPlayer("Bob", entity.SeatB)},
		Active:      entity.SeatB,
		Status:      entity.StatusInProgress,
		WinTarget:   5,
		Round:       1,
		StartPolicy: entity.StartPlayerA,
	}
	game.Board[0][0] = entity.MarkA

	return game
}

func TestGenerateAcceptKey(t *testing.T) {
	// sample handshake from RFC 6455 section 1.3
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", GenerateAcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestWriteHandshake(t *testing.T) {
	var output bytes.Buffer

	require.NoError(t, writeHandshake(&output, "dGhlIHNhbXBsZSBub25jZQ=="))

	assert.True(t, strings.HasPrefix(output.String(), "HTTP/1.1 101 Switching Protocols\r\n"))
	assert.Contains(t, output.String(), "Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n")
	assert.True(t, strings.HasSuffix(output.String(), "\r\n\r\n"))
}

func TestFrameCodec(t *testing.T) {
	sizes := []int{0, 5, 125, 126, 300, 70000}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("Server frame with %d bytes", size), func(t *testing.T) {
			// Given: a payload of the given size
			payload := bytes.Repeat([]byte("x"), size)

			// When: it is written and read back
			var buf bytes.Buffer
			require.NoError(t, writeFrame(&buf, textFrame(payload)))

			if size > maxMessageSize {
				_, err := readFrame(&buf)
				assert.ErrorIs(t, err, ErrMessageTooLarge)
				return
			}

			frameData, err := readFrame(&buf)

			// Then: the frame survives unchanged
			require.NoError(t, err)
			assert.True(t, frameData.isFin)
			assert.Equal(t, opText, frameData.opCode)
			assert.Equal(t, uint64(size), frameData.length)
			assert.Equal(t, payload, frameData.payload)
		})
	}

	t.Run("Masked client frame is unmasked", func(t *testing.T) {
		frameData, err := readFrame(bytes.NewReader(clientFrame(opText, true, []byte(`{"action":"game:get"}`))))

		require.NoError(t, err)
		assert.Equal(t, `{"action":"game:get"}`, string(frameData.payload))
	})

	t.Run("Truncated frame fails", func(t *testing.T) {
		data := clientFrame(opText, true, []byte("hello"))

		_, err := readFrame(bytes.NewReader(data[:len(data)-2]))

		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})
}

func TestServer_ReadMessage(t *testing.T) {
	t.Run("Joins fragments and answers ping", func(t *testing.T) {
		// Given: a fragmented message with a ping in between
		server, _ := newTestServer(t)

		var input bytes.Buffer
		input.Write(clientFrame(opText, false, []byte("tic-")))
		input.Write(clientFrame(opPing, true, []byte("hb")))
		input.Write(clientFrame(opContinuation, true, []byte("tac-toe")))

		var output bytes.Buffer

		// When: the message is read
		message, err := server.readMessage(&input, newConnection(&output))

		// Then: fragments are joined and a pong echoes the ping
		require.NoError(t, err)
		assert.Equal(t, "tic-tac-toe", string(message))

		pong, err := readFrame(&output)
		require.NoError(t, err)
		assert.Equal(t, opPong, pong.opCode)
		assert.Equal(t, "hb", string(pong.payload))
	})

	t.Run("Close frame ends the session", func(t *testing.T) {
		server, _ := newTestServer(t)

		var output bytes.Buffer
		_, err := server.readMessage(bytes.NewReader(clientFrame(opClose, true, nil)), newConnection(&output))

		assert.ErrorIs(t, err, ErrConnectionClosed)

		closeFrame, err := readFrame(&output)
		require.NoError(t, err)
		assert.Equal(t, opClose, closeFrame.opCode)
	})
}

func TestServer_HandleMessages(t *testing.T) {
	t.Run("Creates a game and replies with its view", func(t *testing.T) {
		// Given: a client asking for a new game against the bot
		server, gameService := newTestServer(t)
		params := service.NewGameParams{PlayerA: "Ann", WinTarget: 3, StartPolicy: entity.StartLoser, VsBot: true}
		gameService.On("CreateGame", mock.Anything, params).Return(sampleGame(), nil).Once()

		var input, output bytes.Buffer
		input.Write(clientMessage(t, ActionNewGame, RequestPayload{NewGame: &NewGamePayload{
			PlayerA: "Ann", WinTarget: 3, StartPolicy: "loser", VsBot: true,
		}}))

		// When: the session runs until the input is drained
		require.NoError(t, server.handleMessages(context.Background(), &input, newConnection(&output)))

		// Then: the game view is sent back
		responses := readResponses(t, &output)
		require.Len(t, responses, 1)
		assert.Equal(t, ActionNewGame, responses[0].Action)

		payload := decodeResponse(t, responses[0])
		require.NotNil(t, payload.Game)
		assert.Equal(t, "game-1", payload.Game.ID)
		assert.Equal(t, "X", payload.Game.Board[0][0])
	})

	t.Run("Unknown action gets an error response", func(t *testing.T) {
		server, _ := newTestServer(t)

		var input, output bytes.Buffer
		input.Write(clientMessage(t, "game:leave", RequestPayload{GameID: "game-1"}))

		require.NoError(t, server.handleMessages(context.Background(), &input, newConnection(&output)))

		responses := readResponses(t, &output)
		require.Len(t, responses, 1)
		assert.Equal(t, CodeInvalidRequest, decodeResponse(t, responses[0]).Code)
	})

	t.Run("Rejected move is reported only to the sender", func(t *testing.T) {
		server, gameService := newTestServer(t)
		gameService.On("SubmitMove", mock.Anything, "game-1", 0, 0).
			Return(nil, fmt.Errorf("failed to submit move: %w: %w", apperror.ErrInvalidMove, apperror.ErrCellOccupied)).Once()

		var input, output bytes.Buffer
		row, column := 0, 0
		input.Write(clientMessage(t, ActionTurn, RequestPayload{GameID: "game-1", Row: &row, Column: &column}))

		require.NoError(t, server.handleMessages(context.Background(), &input, newConnection(&output)))

		responses := readResponses(t, &output)
		require.Len(t, responses, 1)
		assert.Equal(t, CodeInvalidMove, decodeResponse(t, responses[0]).Code)
	})

	t.Run("Missing coordinates are an invalid request", func(t *testing.T) {
		server, _ := newTestServer(t)

		var input, output bytes.Buffer
		input.Write(clientMessage(t, ActionTurn, RequestPayload{GameID: "game-1"}))

		require.NoError(t, server.handleMessages(context.Background(), &input, newConnection(&output)))

		responses := readResponses(t, &output)
		require.Len(t, responses, 1)
		assert.Equal(t, CodeInvalidRequest, decodeResponse(t, responses[0]).Code)
	})
}

func TestServer_Broadcast(t *testing.T) {
	// Given: a watcher subscribed to the game and a player making a move
	server, gameService := newTestServer(t)
	gameService.On("SubmitMove", mock.Anything, "game-1", 1, 2).Return(sampleGame(), nil).Once()

	var watcherOutput, playerOutput bytes.Buffer
	watcher := newConnection(&watcherOutput)
	server.subscribe("game-1", watcher)

	var input bytes.Buffer
	row, column := 1, 2
	input.Write(clientMessage(t, ActionTurn, RequestPayload{GameID: "game-1", Row: &row, Column: &column}))

	// When: the move is handled
	require.NoError(t, server.handleMessages(context.Background(), &input, newConnection(&playerOutput)))

	// Then: both connections receive the new state
	for _, output := range []*bytes.Buffer{&watcherOutput, &playerOutput} {
		responses := readResponses(t, output)
		require.Len(t, responses, 1)
		assert.Equal(t, ActionTurn, responses[0].Action)
		assert.Equal(t, "game-1", decodeResponse(t, responses[0]).Game.ID)
	}

	// and the finished session no longer receives updates
	server.subscribersMutex.RLock()
	defer server.subscribersMutex.RUnlock()
	assert.Len(t, server.subscribers["game-1"], 1)
}
