package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"
	"github.com/tinywideclouds/go-microservice-base/pkg/response"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tinywideclouds/go-chat-functions/internal/purge"
)

type PurgeAPI struct {
	Purger *purge.Purger
	Logger *slog.Logger
}

func NewPurgeAPI(purger *purge.Purger, logger *slog.Logger) *PurgeAPI {
	return &PurgeAPI{
		Purger: purger,
		Logger: logger,
	}
}

// PurgeRoomObjects handles POST /rooms/purge. The caller identity comes from
// the auth middleware; the purger owns all validation beyond JSON decoding.
func (api *PurgeAPI) PurgeRoomObjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// An absent identity is passed through as empty; the purger turns it into
	// the typed Unauthenticated error so the contract lives in one place.
	callerID, _ := middleware.GetUserHandleFromContext(ctx)

	// Paths is decoded leniently: absent, null, or a non-array value all read
	// as an empty path list rather than a malformed request.
	var body struct {
		RoomID string          `json:"roomId"`
		Paths  json.RawMessage `json:"paths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req := purge.Request{RoomID: body.RoomID, Paths: decodePaths(body.Paths)}

	result, err := api.Purger.Purge(ctx, callerID, req)
	if err != nil {
		s, _ := status.FromError(err)
		if s.Code() == codes.Internal {
			api.Logger.Error("purge failed", "err", err)
		}
		response.WriteJSONError(w, httpStatus(s.Code()), s.Message())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func decodePaths(raw json.RawMessage) []string {
	var paths []string
	if err := json.Unmarshal(raw, &paths); err != nil {
		return nil
	}
	return paths
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
