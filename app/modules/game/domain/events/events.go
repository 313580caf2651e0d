// Package gameevents defines the messages published by the game module.
package gameevents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// GameImportedV1 is published after a game sheet has been committed.
const GameImportedV1 = "game.imported.v1"

// GameImportedPayloadV1 describes a stored game.
type GameImportedPayloadV1 struct {
	GameID     int64     `json:"game_id"`
	Team1ID    int64     `json:"team1_id"`
	Team2ID    int64     `json:"team2_id"`
	Points1    int       `json:"points1"`
	Points2    int       `json:"points2"`
	Source     string    `json:"source,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
}

// NewMessage encodes payload into a watermill message with a fresh UUID.
func NewMessage(payload any, correlationID string) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), body)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg.Metadata.Set("correlation_id", correlationID)
	return msg, nil
}

// DecodeGameImported unmarshals a GameImportedV1 message.
func DecodeGameImported(msg *message.Message) (*GameImportedPayloadV1, error) {
	var payload GameImportedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", GameImportedV1, err)
	}
	return &payload, nil
}
