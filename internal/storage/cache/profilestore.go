// Package cache adds a read-aside caching layer over the chat document store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tinywideclouds/go-chat-functions/pkg/chat"
	"github.com/tinywideclouds/go-chat-functions/pkg/dispatch"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or a specific error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the key.
	Del(ctx context.Context, key string) error
}

// cachedProfile is the cache representation. Absence is cached too, so a
// participant without a profile does not hit Firestore on every message.
type cachedProfile struct {
	Found   bool             `json:"found"`
	Profile chat.UserProfile `json:"profile"`
}

// CachedChatStore is a Decorator that adds Read-Aside caching of user profile
// lookups to any ChatStore. Room reads always pass through: the participants
// list gates fan-out and purge authorization and must be fresh.
type CachedChatStore struct {
	realStore dispatch.ChatStore
	cache     CacheClient
	ttl       time.Duration
}

func NewCachedChatStore(realStore dispatch.ChatStore, cache CacheClient, ttl time.Duration) *CachedChatStore {
	return &CachedChatStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
	}
}

func (s *CachedChatStore) GetRoom(ctx context.Context, roomID string) (chat.Room, bool, error) {
	return s.realStore.GetRoom(ctx, roomID)
}

func (s *CachedChatStore) GetUserProfile(ctx context.Context, userID string) (chat.UserProfile, bool, error) {
	key := s.cacheKey(userID)

	// 1. Try Cache
	var cached cachedProfile
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Profile, cached.Found, nil
	}

	// 2. Fallback to Real Store (Firestore)
	profile, found, err := s.realStore.GetUserProfile(ctx, userID)
	if err != nil {
		return chat.UserProfile{}, false, err
	}

	// 3. Populate Cache (Fire and Forget)
	// If Redis is down we just serve from the store on the next call.
	_ = s.cache.Set(ctx, key, cachedProfile{Found: found, Profile: profile}, s.ttl)

	return profile, found, nil
}

func (s *CachedChatStore) cacheKey(userID string) string {
	return fmt.Sprintf("chat:profile:%s", userID)
}
