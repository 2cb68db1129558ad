// Package dispatch contains the public interfaces for the external
// collaborators the chat function handlers depend on.
package dispatch

import (
	"context"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
)

// Receipt summarises the per-token outcomes of one multicast dispatch.
type Receipt struct {
	SuccessCount int
	FailureCount int
	InvalidCount int
}

// Dispatcher defines the contract for a component that can fan a notification
// out to a batch of device tokens (e.g. Google's FCM).
type Dispatcher interface {
	// Dispatch sends the content to every token and reports the per-token
	// outcome. A partial failure is reported in the Receipt, not as an error;
	// the error return is reserved for transport-level failure of the batch.
	Dispatch(ctx context.Context, tokens []string, content chat.NotificationContent, data map[string]string) (Receipt, error)
}

// ChatStore defines read access to room and user documents. Absence is an
// explicit result, not an error: found is false when the document does not
// exist, and the error return is reserved for store failures.
type ChatStore interface {
	GetRoom(ctx context.Context, roomID string) (chat.Room, bool, error)
	GetUserProfile(ctx context.Context, userID string) (chat.UserProfile, bool, error)
}

// ObjectStore defines delete access to the chat object bucket.
type ObjectStore interface {
	// Delete removes the object at path. Deleting an object that does not
	// exist is a success (idempotent delete).
	Delete(ctx context.Context, path string) error
}
