package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-chat-functions/internal/storage/cache"
	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
)

// --- Mocks ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}
func (m *MockCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockRealStore struct {
	mock.Mock
}

func (m *MockRealStore) GetRoom(ctx context.Context, roomID string) (chat.Room, bool, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(chat.Room), args.Bool(1), args.Error(2)
}
func (m *MockRealStore) GetUserProfile(ctx context.Context, userID string) (chat.UserProfile, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(chat.UserProfile), args.Bool(1), args.Error(2)
}

func TestCachedStore_ProfileReadAside(t *testing.T) {
	ctx := context.Background()

	t.Run("Cache miss falls through and populates", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedChatStore(mockDB, mockCache, 1*time.Hour)

		profile := chat.UserProfile{FirstName: "Alice", FCMToken: "token-a"}

		mockCache.On("Get", mock.Anything, "chat:profile:alice", mock.Anything).
			Return(errors.New("redis: nil"))
		mockDB.On("GetUserProfile", mock.Anything, "alice").Return(profile, true, nil)
		mockCache.On("Set", mock.Anything, "chat:profile:alice", mock.Anything, 1*time.Hour).
			Return(nil)

		got, found, err := store.GetUserProfile(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, profile, got)
		mockCache.AssertExpectations(t)
		mockDB.AssertExpectations(t)
	})

	t.Run("Cache set failure is ignored", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedChatStore(mockDB, mockCache, 1*time.Hour)

		mockCache.On("Get", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis: nil"))
		mockDB.On("GetUserProfile", mock.Anything, "alice").
			Return(chat.UserProfile{FCMToken: "token-a"}, true, nil)
		mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis down"))

		_, found, err := store.GetUserProfile(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Absence is cached too", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedChatStore(mockDB, mockCache, 1*time.Hour)

		mockCache.On("Get", mock.Anything, "chat:profile:ghost", mock.Anything).
			Return(errors.New("redis: nil"))
		mockDB.On("GetUserProfile", mock.Anything, "ghost").
			Return(chat.UserProfile{}, false, nil)
		mockCache.On("Set", mock.Anything, "chat:profile:ghost", mock.Anything, mock.Anything).
			Return(nil)

		_, found, err := store.GetUserProfile(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, found)
		mockCache.AssertExpectations(t)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		mockCache := new(MockCache)
		mockDB := new(MockRealStore)
		store := cache.NewCachedChatStore(mockDB, mockCache, 1*time.Hour)

		mockCache.On("Get", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("redis: nil"))
		mockDB.On("GetUserProfile", mock.Anything, "alice").
			Return(chat.UserProfile{}, false, errors.New("firestore unreachable"))

		_, _, err := store.GetUserProfile(ctx, "alice")
		require.Error(t, err)
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCachedStore_RoomsPassThrough(t *testing.T) {
	ctx := context.Background()
	mockCache := new(MockCache)
	mockDB := new(MockRealStore)
	store := cache.NewCachedChatStore(mockDB, mockCache, 1*time.Hour)

	room := chat.Room{Participants: []string{"alice", "bob"}}
	mockDB.On("GetRoom", mock.Anything, "room-1").Return(room, true, nil)

	got, found, err := store.GetRoom(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, room, got)

	// Membership data never comes from the cache.
	mockCache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
