package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey     = key("x-request-id")
	participantIDKey = key("participant-id")
)

// WithRequestID returns a context carrying the given request id.
// A fresh uuid-v4 is generated when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from ctx if available.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithParticipantID returns a context carrying the participant id being serviced.
func WithParticipantID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, participantIDKey, id)
}

// GetParticipantID returns the participant id from ctx, or -1 if not present.
func GetParticipantID(ctx context.Context) int {
	id, ok := ctx.Value(participantIDKey).(int)
	if !ok {
		return -1
	}
	return id
}
