package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-chat-functions/internal/pipeline"
)

func TestMessageCreatedTransformer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	validPayload := []byte(`{"roomId":"room-1","messageId":"msg-1","exists":true,"message":{"senderId":"alice","text":"hi"}}`)

	testCases := []struct {
		name                  string
		inputMessage          *messagepipeline.Message
		expectError           bool
		expectedErrorContains string
	}{
		{
			name: "Happy Path - Valid Event",
			inputMessage: &messagepipeline.Message{
				MessageData: messagepipeline.MessageData{ID: "msg-1", Payload: validPayload},
			},
			expectError: false,
		},
		{
			name: "Failure - Malformed JSON",
			inputMessage: &messagepipeline.Message{
				MessageData: messagepipeline.MessageData{ID: "msg-2", Payload: []byte("not-json")},
			},
			expectError:           true,
			expectedErrorContains: "failed to unmarshal message-created event",
		},
		{
			name: "Failure - Missing Room ID",
			inputMessage: &messagepipeline.Message{
				MessageData: messagepipeline.MessageData{ID: "msg-3", Payload: []byte(`{"messageId":"msg-3","exists":true}`)},
			},
			expectError:           true,
			expectedErrorContains: "no room id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, skip, err := pipeline.MessageCreatedTransformer(ctx, tc.inputMessage)

			if tc.expectError {
				require.Error(t, err)
				assert.True(t, skip, "poison events must be skipped, not retried")
				assert.Contains(t, err.Error(), tc.expectedErrorContains)
				return
			}

			require.NoError(t, err)
			assert.False(t, skip)
			require.NotNil(t, event)
			assert.Equal(t, "room-1", event.RoomID)
			assert.Equal(t, "msg-1", event.MessageID)
			assert.True(t, event.Exists)
			assert.Equal(t, "alice", event.Message.SenderID)
			assert.Equal(t, "hi", event.Message.Text)
		})
	}
}
