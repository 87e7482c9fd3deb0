package summary

import (
	"context"
	"time"
)

// CompletionRequest is one call to the text-generation service. When Schema
// is non-nil the service is asked for a single JSON object matching it
// (strict structured output); otherwise the response is free text.
type CompletionRequest struct {
	Instructions string
	Input        string

	SchemaName string
	Schema     map[string]any
}

// Completer is the narrow surface of the text-generation service. It may be
// slow, may fail, and may return empty text; callers never retry — every
// failure resolves to a documented fallback value instead.
//
// Implementations must be safe for concurrent use by independent pipeline
// invocations.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// HistorySource is the channel-history collaborator: message history within
// a window (newest first) and the current member roster.
type HistorySource interface {
	// History returns up to limit messages with after < CreatedAt < before,
	// newest first. A zero after means no lower bound.
	History(ctx context.Context, after, before time.Time, limit int) ([]ChannelMessage, error)

	// Members returns a read-only snapshot of the channel's member roster.
	Members(ctx context.Context) ([]Member, error)
}

// Responder is the delivery sink for one invocation: Edit replaces the
// placeholder message posted when the pipeline started, Send posts a
// follow-up message to the channel. Both are subject to the platform's hard
// length limit.
type Responder interface {
	Edit(ctx context.Context, content string) error
	Send(ctx context.Context, content string) error
}
