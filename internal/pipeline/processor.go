package pipeline

import (
	"context"
	"log/slog"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"

	"github.com/tinywideclouds/go-chat-functions/internal/notifier"
	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
)

// NewProcessor adapts the notifier into a pipeline StreamProcessor.
// A returned error nacks the event for redelivery; the notifier's no-op
// branches return nil and ack.
func NewProcessor(n *notifier.Notifier, logger *slog.Logger) messagepipeline.StreamProcessor[chat.MessageCreatedEvent] {
	return func(ctx context.Context, original messagepipeline.Message, event *chat.MessageCreatedEvent) error {
		procLogger := logger.With(
			"room_id", event.RoomID,
			"message_id", event.MessageID,
			"pubsub_msg_id", original.ID,
		)

		if err := n.HandleMessageCreated(ctx, *event); err != nil {
			procLogger.Error("Message-created handling failed", "err", err)
			return err // Retryable
		}
		return nil
	}
}
