package websocket

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

const (
	opContinuation byte = 0x0
	opText         byte = 0x1
	opBinary       byte = 0x2
	opClose        byte = 0x8
	opPing         byte = 0x9
	opPong         byte = 0xA
)

// maxMessageSize - upper bound for a client message, game commands are tiny.
const maxMessageSize = 64 << 10

var (
	ErrConnectionClosed = errors.New("connection closed by peer")
	ErrMessageTooLarge  = errors.New("message too large")
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewGamePayload - settings for game:new.
type NewGamePayload struct {
	PlayerA     string `json:"player_a"`
	PlayerB     string `json:"player_b"`
	WinTarget   int    `json:"win_target"`
	StartPolicy string `json:"start_policy"`
	VsBot       bool   `json:"vs_bot"`
}

type RequestPayload struct {
	GameID  string          `json:"game_id,omitempty"`
	NewGame *NewGamePayload `json:"new_game,omitempty"`
	Row     *int            `json:"row,omitempty"`
	Column  *int            `json:"column,omitempty"`
}

type ResponsePayload struct {
	Game  *view.Game `json:"game,omitempty"`
	Error string     `json:"error,omitempty"`
	Code  string     `json:"code,omitempty"`
}

func encodeMessage(action string, payload ResponsePayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return response, nil
}

func textFrame(payload []byte) frame {
	return frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(payload)),
		payload: payload,
	}
}

// writeFrame - writes an unmasked server frame.
func writeFrame(writer io.Writer, frameData frame) error {
	header := make([]byte, 2, 10)
	header[0] |= frameData.opCode

	if frameData.isFin {
		header[0] |= 0x80
	}

	switch {
	case frameData.length < 126:
		header[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		header[1] |= 126
		header = binary.BigEndian.AppendUint16(header, uint16(frameData.length))
	default:
		header[1] |= 127
		header = binary.BigEndian.AppendUint64(header, frameData.length)
	}

	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write frame header: %w", err)
	}

	if _, err := writer.Write(frameData.payload); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}

	return nil
}

// readFrame - reads one frame and unmasks its payload.
func readFrame(reader io.Reader) (frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(reader, header); err != nil {
		return frame{}, fmt.Errorf("failed to read header: %w", err)
	}

	isFin := header[0]>>7 == 1
	opCode := header[0] & 0x0f
	masked := header[1]>>7 == 1

	size, err := readPayloadLength(reader, header[1]&0x7f)
	if err != nil {
		return frame{}, err
	}

	if size > maxMessageSize {
		return frame{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
	}

	mask, err := readMask(reader, masked)
	if err != nil {
		return frame{}, err
	}

	payload, err := readData(reader, size, mask)
	if err != nil {
		return frame{}, err
	}

	return frame{isFin: isFin, opCode: opCode, length: size, payload: payload}, nil
}

func readPayloadLength(reader io.Reader, payloadLen byte) (uint64, error) {
	switch payloadLen {
	case 126:
		length := make([]byte, 2)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return uint64(binary.BigEndian.Uint16(length)), nil
	case 127:
		length := make([]byte, 8)
		if _, err := io.ReadFull(reader, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return binary.BigEndian.Uint64(length), nil
	default:
		return uint64(payloadLen), nil
	}
}

func readMask(reader io.Reader, masked bool) ([]byte, error) {
	if !masked {
		return nil, nil
	}

	mask := make([]byte, 4)
	if _, err := io.ReadFull(reader, mask); err != nil {
		return nil, fmt.Errorf("failed to read mask: %w", err)
	}

	return mask, nil
}

func readData(reader io.Reader, size uint64, mask []byte) ([]byte, error) {
	payload := make([]byte, size)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}
