//go:build integration

package firestore_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/illmade-knight/go-test/emulators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fs "github.com/tinywideclouds/go-chat-functions/internal/storage/firestore"
)

func setupSuite(t *testing.T) (context.Context, *firestore.Client, *fs.ChatStore) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	projectID := "test-chat-store"
	conn := emulators.SetupFirestoreEmulator(t, ctx, emulators.GetDefaultFirestoreConfig(projectID))
	client, err := firestore.NewClient(ctx, projectID, conn.ClientOptions...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return ctx, client, fs.NewChatStore(client)
}

func TestChatStore_Integration(t *testing.T) {
	ctx, client, store := setupSuite(t)

	t.Run("Room Lifecycle", func(t *testing.T) {
		roomID := "room-" + uuid.NewString()

		// 1. Missing room reads as not found, not as an error
		_, found, err := store.GetRoom(ctx, roomID)
		require.NoError(t, err)
		assert.False(t, found)

		// 2. Seed and read back
		_, err = client.Collection("privateChats").Doc(roomID).Set(ctx, map[string]any{
			"participants": []string{"alice", "bob"},
		})
		require.NoError(t, err)

		room, found, err := store.GetRoom(ctx, roomID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"alice", "bob"}, room.Participants)
	})

	t.Run("User Profile Lifecycle", func(t *testing.T) {
		userID := "user-" + uuid.NewString()

		_, found, err := store.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		assert.False(t, found)

		_, err = client.Collection("users").Doc(userID).Set(ctx, map[string]any{
			"firstName": "Alice",
			"lastName":  "Archer",
			"fcmToken":  "token-a",
		})
		require.NoError(t, err)

		profile, found, err := store.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Alice", profile.FirstName)
		assert.Equal(t, "Archer", profile.LastName)
		assert.Equal(t, "token-a", profile.FCMToken)
	})

	t.Run("Partial Profile Defaults To Empty Fields", func(t *testing.T) {
		userID := "user-" + uuid.NewString()

		_, err := client.Collection("users").Doc(userID).Set(ctx, map[string]any{
			"firstName": "Solo",
		})
		require.NoError(t, err)

		profile, found, err := store.GetUserProfile(ctx, userID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Solo", profile.FirstName)
		assert.Empty(t, profile.LastName)
		assert.Empty(t, profile.FCMToken)
	})
}
