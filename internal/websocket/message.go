package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	MessageTypeMovieCreated MessageType = "MOVIE_CREATED"
	MessageTypeMovieUpdated MessageType = "MOVIE_UPDATED"
	MessageTypeMovieDeleted MessageType = "MOVIE_DELETED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// MoviePayload identifies the movie a catalog event is about. Name and Owner
// are empty for deletions.
type MoviePayload struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Owner string `json:"owner,omitempty"`
}
