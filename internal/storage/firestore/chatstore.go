// Package firestore implements the chat document store over Google Cloud
// Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
)

const (
	roomsCollection = "privateChats"
	usersCollection = "users"
)

// ChatStore implements dispatch.ChatStore using Google Cloud Firestore.
type ChatStore struct {
	client *firestore.Client
}

func NewChatStore(client *firestore.Client) *ChatStore {
	return &ChatStore{client: client}
}

// GetRoom reads privateChats/{roomID}. A missing document is reported as
// found=false, never as an error.
func (s *ChatStore) GetRoom(ctx context.Context, roomID string) (chat.Room, bool, error) {
	snap, err := s.client.Collection(roomsCollection).Doc(roomID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return chat.Room{}, false, nil
	}
	if err != nil {
		return chat.Room{}, false, fmt.Errorf("firestore room read failed: %w", err)
	}

	var room chat.Room
	if err := snap.DataTo(&room); err != nil {
		return chat.Room{}, false, fmt.Errorf("room document %s malformed: %w", roomID, err)
	}
	return room, true, nil
}

// GetUserProfile reads users/{userID}. Missing profiles are legitimate (a
// participant may never have signed in on a device) and reported as found=false.
func (s *ChatStore) GetUserProfile(ctx context.Context, userID string) (chat.UserProfile, bool, error) {
	snap, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return chat.UserProfile{}, false, nil
	}
	if err != nil {
		return chat.UserProfile{}, false, fmt.Errorf("firestore user read failed: %w", err)
	}

	var profile chat.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return chat.UserProfile{}, false, fmt.Errorf("user document %s malformed: %w", userID, err)
	}
	return profile, true, nil
}
