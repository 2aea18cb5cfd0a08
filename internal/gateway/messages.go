package gateway

import (
	"time"

	"github.com/vovakirdan/neonride/internal/env"
)

// Wire message types exchanged with remote agents over HTTP and websocket.

// CreateRequest opens a session.
type CreateRequest struct {
	Profile string `json:"profile,omitempty" jsonschema:"enum=presentation,enum=training,description=Constant set to simulate; defaults to presentation"`
	Seed    *int64 `json:"seed,omitempty" jsonschema:"description=Spawn RNG seed; omitted means time based"`
}

// CreateResponse is returned with 201 when a session is created.
type CreateResponse struct {
	ID          string    `json:"id" jsonschema:"format=uuid"`
	Profile     string    `json:"profile"`
	Seed        int64     `json:"seed"`
	Observation []float64 `json:"observation" jsonschema:"minItems=14,maxItems=14"`
}

// ResetRequest starts a new episode. The body may be empty.
type ResetRequest struct {
	Seed *int64 `json:"seed,omitempty" jsonschema:"description=Reseed the spawn RNG; omitted continues the current stream"`
}

// ResetResponse carries the observation after a reset.
type ResetResponse struct {
	Seed        int64     `json:"seed"`
	Observation []float64 `json:"observation" jsonschema:"minItems=14,maxItems=14"`
}

// StepRequest advances a session by one tick.
type StepRequest struct {
	Action *int `json:"action" jsonschema:"required,minimum=0,maximum=2,description=0 stay; 1 left; 2 right"`
}

// StepResponse is the outcome of one tick.
type StepResponse struct {
	Observation []float64 `json:"observation" jsonschema:"minItems=14,maxItems=14"`
	Reward      float64   `json:"reward"`
	Done        bool      `json:"done"`
	Score       int       `json:"score"`
	Passed      int       `json:"passed"`
	Ticks       int       `json:"ticks"`
}

// SessionInfo describes a live session.
type SessionInfo struct {
	ID          string    `json:"id" jsonschema:"format=uuid"`
	Profile     string    `json:"profile"`
	Seed        int64     `json:"seed"`
	Ticks       int       `json:"ticks"`
	Score       int       `json:"score"`
	TotalReward float64   `json:"total_reward"`
	Done        bool      `json:"done"`
	Episodes    int       `json:"episodes"`
	CreatedAt   time.Time `json:"created_at"`
	LastUsedAt  time.Time `json:"last_used_at"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Websocket message types.
const (
	MsgReset       = "reset"
	MsgStep        = "step"
	MsgReady       = "ready"
	MsgObservation = "observation"
	MsgError       = "error"
)

// ClientMessage is sent by a websocket client.
type ClientMessage struct {
	Type   string `json:"type" jsonschema:"enum=reset,enum=step"`
	Action *int   `json:"action,omitempty" jsonschema:"minimum=0,maximum=2"`
	Seed   *int64 `json:"seed,omitempty" jsonschema:"description=Optional reseed on reset"`
}

// ServerMessage is sent by the gateway over a websocket.
type ServerMessage struct {
	Type        string    `json:"type" jsonschema:"enum=ready,enum=observation,enum=error"`
	Session     string    `json:"session,omitempty"`
	Profile     string    `json:"profile,omitempty"`
	Observation []float64 `json:"observation,omitempty"`
	Reward      float64   `json:"reward"`
	Done        bool      `json:"done"`
	Score       int       `json:"score"`
	Passed      int       `json:"passed"`
	Ticks       int       `json:"ticks"`
	Error       string    `json:"error,omitempty"`
}

func stepResponse(res env.StepResult, ticks int) StepResponse {
	return StepResponse{
		Observation: res.Observation.Slice(),
		Reward:      res.Reward,
		Done:        res.Done,
		Score:       res.Score,
		Passed:      res.Passed,
		Ticks:       ticks,
	}
}
