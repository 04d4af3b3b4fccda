package ws

import "voltboard/backend/services/dashboard-service/internal/models"

// Frame types exchanged over the dashboard stream.
const (
	// server -> client
	FrameSnapshot = "snapshot"
	FrameAppend   = "append"
	FrameWaiting  = "waiting"
	FrameError    = "error"

	// client -> server
	FrameRetry = "retry"
)

// Frame is one JSON text message on the dashboard stream.
type Frame struct {
	Type    string       `json:"type"`
	Rows    models.Table `json:"rows,omitempty"`
	Message string       `json:"message,omitempty"`
}
