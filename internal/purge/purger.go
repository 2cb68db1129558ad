// Package purge implements the authenticated room-object purge operation:
// a participant of a room asks for a set of storage paths to be deleted.
package purge

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tinywideclouds/go-chat-functions/pkg/dispatch"
)

// deleteBatchSize bounds how many object deletions are in flight at once.
const deleteBatchSize = 50

// Request is the caller-supplied input. Paths is optional; the caller asserts
// the paths belong to the room, only membership is verified here.
type Request struct {
	RoomID string   `json:"roomId"`
	Paths  []string `json:"paths"`
}

// Result reports the outcome of a completed purge. Reason is set to
// "room_missing" when the room document no longer exists.
type Result struct {
	OK      bool   `json:"ok"`
	Deleted int    `json:"deleted"`
	Skipped int    `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

type Purger struct {
	store   dispatch.ChatStore
	objects dispatch.ObjectStore
	logger  *slog.Logger
}

func New(store dispatch.ChatStore, objects dispatch.ObjectStore, logger *slog.Logger) *Purger {
	return &Purger{
		store:   store,
		objects: objects,
		logger:  logger.With("component", "Purger"),
	}
}

// Purge validates the caller and deletes the requested paths.
//
// Validation and authorization failures surface as typed status errors
// (Unauthenticated, InvalidArgument, PermissionDenied) before any deletion is
// attempted. Anything unexpected is wrapped as Internal; the typed errors are
// never downgraded.
func (p *Purger) Purge(ctx context.Context, callerID string, req Request) (Result, error) {
	res, err := p.purge(ctx, callerID, req)
	if err != nil {
		if isRequestError(err) {
			return Result{}, err
		}
		return Result{}, status.Errorf(codes.Internal, "purge failed: %v", err)
	}
	return res, nil
}

// isRequestError reports whether err is one of the typed errors this package
// constructs itself. Status errors leaking out of the Google clients do not
// count; they are infrastructure failures and get wrapped as Internal.
func isRequestError(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.Unauthenticated, codes.InvalidArgument, codes.PermissionDenied:
		return true
	default:
		return false
	}
}

func (p *Purger) purge(ctx context.Context, callerID string, req Request) (Result, error) {
	if callerID == "" {
		return Result{}, status.Error(codes.Unauthenticated, "caller identity required")
	}

	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		return Result{}, status.Error(codes.InvalidArgument, "roomId is required")
	}

	room, found, err := p.store.GetRoom(ctx, roomID)
	if err != nil {
		return Result{}, err
	}
	if !found {
		// The room being gone already is exactly what a cleanup call wants.
		return Result{OK: true, Reason: "room_missing"}, nil
	}

	if !lo.Contains(room.Participants, callerID) {
		return Result{}, status.Error(codes.PermissionDenied, "caller is not a room participant")
	}

	paths := lo.FilterMap(req.Paths, func(path string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(path)
		return trimmed, trimmed != ""
	})

	logger := p.logger.With("room_id", roomID, "caller_id", callerID)
	result := Result{OK: true}

	// Batches run strictly in sequence; deletions inside a batch run
	// concurrently. A failed path is tallied, never fatal.
	var mu sync.Mutex
	for _, batch := range lo.Chunk(paths, deleteBatchSize) {
		var wg sync.WaitGroup
		for _, path := range batch {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				err := p.objects.Delete(ctx, path)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Skipped++
					logger.Warn("Object deletion failed; skipping.", "path", path, "err", err)
					return
				}
				result.Deleted++
			}(path)
		}
		wg.Wait()
	}

	logger.Info("Purge complete.", "deleted", result.Deleted, "skipped", result.Skipped)
	return result, nil
}
