package websocket

import (
	"crypto/sha1" //nolint: gosec // RFC 6455 requires SHA-1
	"encoding/base64"
	"fmt"
	"io"
)

// Static GUID defined in RFC 6455 for WebSocket.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateAcceptKey - generates key for WebSocket handshake.
func GenerateAcceptKey(key string) string {
	h := sha1.New() //nolint: gosec // RFC 6455 requires the use of SHA-1 for WebSocket

	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// writeHandshake - writes the 101 response on a hijacked connection.
func writeHandshake(writer io.Writer, key string) error {
	_, err := fmt.Fprintf(writer,
		"HTTP/1.1 101 Switching Protocols\r\n"+
			"Upgrade: websocket\r\n"+
			"Connection: Upgrade\r\n"+
			"Sec-WebSocket-Accept: %s\r\n\r\n",
		GenerateAcceptKey(key),
	)
	if err != nil {
		return fmt.Errorf("failed to write handshake: %w", err)
	}

	return nil
}
