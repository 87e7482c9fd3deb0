package summary

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// completerFunc adapts a function to Completer for stubbing delegate calls.
type completerFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// staticCompleter always answers the same text.
func staticCompleter(out string) completerFunc {
	return func(context.Context, CompletionRequest) (string, error) { return out, nil }
}

// echoCompleter returns the request input unchanged (a well-behaved
// sanitizer delegate).
func echoCompleter() completerFunc {
	return func(_ context.Context, req CompletionRequest) (string, error) { return req.Input, nil }
}

var cest = time.FixedZone("CEST", 2*3600)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func strPtr(s string) *string { return &s }

func intPtr(n int64) *int64 { return &n }

func boolPtr(b bool) *bool { return &b }

func timeAt(h, m int) time.Time { return time.Date(2025, 7, 20, h, m, 0, 0, cest) }

func msgAt(t time.Time, author, id, content string) ChannelMessage {
	return ChannelMessage{AuthorID: id, AuthorName: author, CreatedAt: t, Content: content}
}
