// Package pipeline binds the trigger handler into the message processing
// pipeline for the service.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
)

// MessageCreatedTransformer safely unmarshals a raw trigger payload into a
// structured chat.MessageCreatedEvent.
//
// An unparseable payload or one without a room id can never be handled, so we
// return an error with skip=true and let the StreamingService route it to the
// DLQ rather than redeliver it forever.
func MessageCreatedTransformer(
	_ context.Context,
	msg *messagepipeline.Message,
) (*chat.MessageCreatedEvent, bool, error) {
	var event chat.MessageCreatedEvent

	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, true, fmt.Errorf("failed to unmarshal message-created event from message %s: %w", msg.ID, err)
	}

	if event.RoomID == "" {
		return nil, true, fmt.Errorf("message-created event %s has no room id", msg.ID)
	}

	return &event, false, nil
}
