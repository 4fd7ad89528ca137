package protocol

import (
	"encoding/json"
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeOutcome is broadcast by the server whenever a sequence run finishes
	TypeOutcome MessageType = "outcome"

	// TypeStatusRequest is sent by a client to request the sequence list
	TypeStatusRequest MessageType = "status_req"

	// TypeStatusResponse is sent by the server with the sequence list
	TypeStatusResponse MessageType = "status_resp"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// OutcomePayload is the payload for TypeOutcome
type OutcomePayload struct {
	RunID    string     `json:"run_id"`
	Sequence string     `json:"sequence"`
	State    string     `json:"state"`              // "Next" or "Fail"
	Record   [][]string `json:"record"`             // key names per snapshot
	Started  time.Time  `json:"started"`
	Finished time.Time  `json:"finished"`
}

// SequenceStatus describes one configured sequence
type SequenceStatus struct {
	Name        string          `json:"name"`
	Enabled     bool            `json:"enabled"`
	Loop        bool            `json:"loop"`
	LastOutcome *OutcomePayload `json:"last_outcome,omitempty"`
}

// StatusResponsePayload is the payload for TypeStatusResponse
type StatusResponsePayload struct {
	Sequences []SequenceStatus `json:"sequences"`
}

// DecodePayload re-decodes a generic payload (as produced by unmarshalling
// a Message) into v.
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
