package fcm

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
	"github.com/tinywideclouds/go-chat-functions/pkg/dispatch"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
type MessagingClient interface {
	SendEachForMulticast(ctx context.Context, msg *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

type Dispatcher struct {
	client MessagingClient
	logger *slog.Logger
}

// NewDispatcher accepts the concrete client but stores it as the interface.
// Note: *messaging.Client automatically satisfies this interface.
func NewDispatcher(client MessagingClient, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger.With("component", "FCMDispatcher"),
	}
}

// Dispatch fans content out to every token in one multicast call. Per-token
// failures are tallied into the receipt; only a transport-level failure of
// the whole batch surfaces as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, tokens []string, content chat.NotificationContent, data map[string]string) (dispatch.Receipt, error) {
	if len(tokens) == 0 {
		return dispatch.Receipt{}, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
		Notification: &messaging.Notification{
			Title: content.Title,
			Body:  content.Body,
		},
	}

	br, err := d.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		return dispatch.Receipt{}, fmt.Errorf("fcm transport failed: %w", err)
	}

	receipt := dispatch.Receipt{
		SuccessCount: br.SuccessCount,
		FailureCount: br.FailureCount,
	}

	if br.FailureCount > 0 {
		for idx, resp := range br.Responses {
			if resp.Success {
				continue
			}
			// A dead registration is expected churn; anything else is worth a line.
			if messaging.IsRegistrationTokenNotRegistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
				receipt.InvalidCount++
				continue
			}
			d.logger.Warn("FCM send failed for token", "token_index", idx, "err", resp.Error)
		}
	}

	return receipt, nil
}
