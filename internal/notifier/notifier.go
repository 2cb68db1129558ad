// Package notifier implements the message-created trigger handler: it
// resolves a room's participants, looks up their device tokens and fans one
// multicast push out to everyone except the sender.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
	"github.com/tinywideclouds/go-chat-functions/pkg/dispatch"
)

const (
	// fallbackTitle is used when the sender has no profile or no name fields.
	fallbackTitle = "New message"
	// fallbackBody is used when the message has no displayable text.
	fallbackBody = "New message in MW Chat"

	notificationType = "private_message"
)

type Notifier struct {
	store      dispatch.ChatStore
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
}

func New(store dispatch.ChatStore, dispatcher dispatch.Dispatcher, logger *slog.Logger) *Notifier {
	return &Notifier{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger.With("component", "Notifier"),
	}
}

// HandleMessageCreated reacts to the creation of one message document.
//
// Missing room, empty receiver list and empty token list are all successful
// no-ops: returning an error here would make the platform redeliver an event
// that can never produce a notification. Store and gateway failures do return
// errors so the event is redelivered.
func (n *Notifier) HandleMessageCreated(ctx context.Context, event chat.MessageCreatedEvent) error {
	logger := n.logger.With("room_id", event.RoomID, "message_id", event.MessageID)

	if !event.Exists {
		logger.Info("No snapshot data for created message; skipping.")
		return nil
	}

	senderID := event.Message.SenderID
	if senderID == "" {
		// Receiver exclusion is an exact string match, so an empty sender id
		// excludes nobody and the sending device will be notified too.
		logger.Warn("Message has no sender id; sender exclusion will not apply.")
	}

	room, found, err := n.store.GetRoom(ctx, event.RoomID)
	if err != nil {
		return err
	}
	if !found {
		logger.Warn("Room document missing for created message.")
		return nil
	}

	receiverIDs := lo.Filter(room.Participants, func(uid string, _ int) bool {
		return uid != senderID
	})
	if len(receiverIDs) == 0 {
		logger.Info("No receivers for room.")
		return nil
	}

	sender, receivers, err := n.fetchProfiles(ctx, senderID, receiverIDs)
	if err != nil {
		return fmt.Errorf("profile lookup failed: %w", err)
	}

	tokens := collectTokens(receivers)
	if len(tokens) == 0 {
		logger.Info("No device tokens for receivers.", "receivers", len(receiverIDs))
		return nil
	}

	content := chat.NotificationContent{
		Title: senderName(sender),
		Body:  bodyText(event.Message.Text),
	}
	data := map[string]string{
		"roomId":   event.RoomID,
		"senderId": senderID,
		"type":     notificationType,
	}

	receipt, err := n.dispatcher.Dispatch(ctx, tokens, content, data)
	if err != nil {
		return err
	}

	// Partial per-token failure is still a successful invocation.
	logger.Info("Push dispatched.",
		"tokens", len(tokens),
		"success", receipt.SuccessCount,
		"failure", receipt.FailureCount,
		"invalid", receipt.InvalidCount,
	)
	return nil
}

// profileResult pairs a lookup with its outcome; absence is not an error.
type profileResult struct {
	profile chat.UserProfile
	found   bool
}

// fetchProfiles loads the sender's and every receiver's profile concurrently
// and waits for all of them. Any individual store failure fails the join.
func (n *Notifier) fetchProfiles(ctx context.Context, senderID string, receiverIDs []string) (profileResult, []profileResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	var sender profileResult
	if senderID != "" {
		g.Go(func() error {
			profile, found, err := n.store.GetUserProfile(gctx, senderID)
			if err != nil {
				return err
			}
			sender = profileResult{profile: profile, found: found}
			return nil
		})
	}

	receivers := make([]profileResult, len(receiverIDs))
	for i, uid := range receiverIDs {
		g.Go(func() error {
			profile, found, err := n.store.GetUserProfile(gctx, uid)
			if err != nil {
				return err
			}
			receivers[i] = profileResult{profile: profile, found: found}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return profileResult{}, nil, err
	}
	return sender, receivers, nil
}

func senderName(sender profileResult) string {
	if !sender.found {
		return fallbackTitle
	}
	name := strings.TrimSpace(sender.profile.FirstName + " " + sender.profile.LastName)
	if name == "" {
		return fallbackTitle
	}
	return name
}

func bodyText(text string) string {
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return trimmed
	}
	return fallbackBody
}

func collectTokens(receivers []profileResult) []string {
	return lo.FilterMap(receivers, func(r profileResult, _ int) (string, bool) {
		return r.profile.FCMToken, r.found && r.profile.FCMToken != ""
	})
}
