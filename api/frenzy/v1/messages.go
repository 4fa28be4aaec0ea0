// Package frenzyv1 defines the wire messages and gRPC services of the factor frenzy API.
// Messages travel as JSON over gRPC using the codec registered in codec.go.
package frenzyv1

import "time"

type FactorizeRequest struct {
	// Number is a decimal integer. It is a string so malformed input is
	// rejected by the server with InvalidArgument instead of failing to decode.
	Number string `json:"number"`
}

type FactorizeResponse struct {
	Target         int64   `json:"target"`
	Factors        []int64 `json:"factors"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Divisions      int64   `json:"divisions"`
}

type BatchRequest struct {
	// Numbers defaults to the standard batch when empty.
	Numbers []int64 `json:"numbers,omitempty"`
}

type BatchResponse struct {
	Measurements []*FactorizeResponse `json:"measurements"`
}

type StartSessionRequest struct {
	Pool string `json:"pool,omitempty"`
}

type StartSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	Pool      string    `json:"pool"`
	ExpiresAt time.Time `json:"expires_at"`
}

type NewRoundRequest struct{}

type NewRoundResponse struct {
	RoundID string `json:"round_id"`
	Target  int64  `json:"target"`
	Phase   string `json:"phase"`
}

type GetHintRequest struct{}

type GetHintResponse struct {
	Hint  string `json:"hint"`
	Phase string `json:"phase"`
}

type SubmitGuessRequest struct {
	Guess string `json:"guess"`
}

type SubmitGuessResponse struct {
	RoundID  string   `json:"round_id"`
	Target   int64    `json:"target"`
	Correct  bool     `json:"correct"`
	Truth    []int64  `json:"truth"`
	Parsed   []int64  `json:"parsed"`
	Dropped  []string `json:"dropped,omitempty"`
	HintUsed bool     `json:"hint_used"`
	Score    int      `json:"score"`
	Phase    string   `json:"phase"`
}

type GetSessionRequest struct{}

type Round struct {
	RoundID string  `json:"round_id"`
	Target  int64   `json:"target"`
	Hint    string  `json:"hint,omitempty"`
	Guess   string  `json:"guess"`
	Correct bool    `json:"correct"`
	Truth   []int64 `json:"truth"`
}

type Session struct {
	SessionID string `json:"session_id"`
	Pool      string `json:"pool"`
	Score     int    `json:"score"`
	Phase     string `json:"phase"`
	// CurrentTarget is zero when no round is open.
	CurrentTarget int64     `json:"current_target,omitempty"`
	History       []*Round  `json:"history"`
	ExpiresAt     time.Time `json:"expires_at"`
}
