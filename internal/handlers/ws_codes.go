// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the session handler. These give
// clients more specific closure reasons than the standard codes.
const (
	BadSubprotocolError  = 3000 // Client connected with an unsupported subprotocol.
	InvalidRejoinToken   = 3001 // Provided rejoin token was invalid or expired.
	InvalidPlayerIDError = 3002 // Player ID carried by a rejoin token was malformed.
	InvalidRoomIDError   = 3003 // Room named by a rejoin token is malformed or gone.
)
