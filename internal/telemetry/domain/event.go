package domain

import "time"

// Event types emitted by the game and transport layers.
const (
	EventFactorize      = "factorize"
	EventRoundStarted   = "round_started"
	EventHintShown      = "hint_shown"
	EventRoundEvaluated = "round_evaluated"
	EventGRPCRequest    = "grpc_request"
)

// Event is one telemetry record. SessionID is empty for stateless calls.
type Event struct {
	Type      string
	SessionID string
	Source    string
	Metadata  []byte // JSON
	CreatedAt time.Time
}
