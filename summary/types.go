// Package summary implements the conversation summarization pipeline: a
// trigger message is classified into an intent, the intent's fuzzy time and
// author hints are resolved against the channel, the matching history is
// packed into a token-budgeted generation request, and the generated text is
// fitted to the platform's hard message length limit.
//
// Every call to the text-generation service goes through the narrow Completer
// interface; all logic around those calls is deterministic and covered by the
// package tests with stub completers.
package summary

import "time"

// Intent is the structured result of classifying one trigger message.
// When Summary is false, all other fields are advisory only and must not
// drive retrieval.
type Intent struct {
	// Summary reports whether the message asks for a conversation summary.
	Summary bool `json:"summary"`

	// WrongChannel reports that the user referenced another channel or an
	// external source; the pipeline only summarizes the channel it was
	// invoked in.
	WrongChannel bool `json:"wrong_channel"`

	// Authors holds free-text names or ids the user asked to restrict the
	// summary to. Nil/empty means no author preference was expressed.
	Authors []string `json:"authors"`

	// TimeLimit is the raw fuzzy time phrase ("depuis hier", "de minuit à
	// 2h"), nil when the user gave none.
	TimeLimit *string `json:"time_limit"`

	// CountLimit is an explicit number of messages to summarize, nil when
	// the user gave none.
	CountLimit *int64 `json:"count_limit"`

	// Ascending is true when the user wants the first messages of a range,
	// false for the latest ones, nil when unspecified.
	Ascending *bool `json:"ascending"`

	// Focus is what the user seems interested in ("drama", "infos
	// importantes"), nil when unspecified.
	Focus *string `json:"focus"`
}

// TimeWindow is a half-open [Start, End) interval in the pipeline's fixed
// timezone. A nil Start means "no lower bound"; End defaults to the
// invocation's reference time.
type TimeWindow struct {
	Start *time.Time
	End   time.Time
}

// ResolvedQuery is the fully defaulted and clamped retrieval request built
// from one Intent. Notices records every fallback or clamp decision, in the
// order applied; they are prepended verbatim to the final response.
type ResolvedQuery struct {
	Window    TimeWindow
	Limit     int
	Authors   []string // member ids; nil means all authors allowed
	Ascending bool
	Focus     string
	Notices   []string
}

// ChannelMessage is a read-only snapshot of one message from the channel
// history collaborator. The pipeline never mutates it.
type ChannelMessage struct {
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	Content    string    `json:"content"`
	Bot        bool      `json:"bot,omitempty"`
	Mentions   []string  `json:"mentions,omitempty"`
}

// Member is one entry of the channel's member roster, used only for fuzzy
// author-name resolution.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	GlobalName  string `json:"global_name,omitempty"`
	Username    string `json:"username"`
	Bot         bool   `json:"bot,omitempty"`
}

// Trigger is the message that invoked the pipeline.
type Trigger struct {
	ChannelName string
	Content     string
	AuthorID    string

	// Mentions holds the ids of explicitly @-mentioned users, including
	// the bot itself (the trigger necessarily mentions it).
	Mentions []string
}

// Fixed pipeline limits, matching the platform's message constraints.
const (
	// MaxResponseChars is the platform's hard message length limit.
	MaxResponseChars = 2000

	// FitTarget is where Fit starts cutting oversized text.
	FitTarget = 1900

	// ChunkSize is the slice size used when a payload must be split across
	// several platform messages.
	ChunkSize = 1900

	// DefaultTokenBudget caps the estimated size of one generation request.
	DefaultTokenBudget = 12000

	maxCountLimit     = 500
	defaultCountLimit = 100
	timeBoundCount    = 500
	rawFetchBound     = 1000
)

// DefaultTimezone is the fixed zone every timestamp in the pipeline is
// expressed in.
const DefaultTimezone = "Europe/Paris"

// MinAllowedStart returns the historical floor for retrieval windows: the
// bot has no usable history before this date.
func MinAllowedStart(loc *time.Location) time.Time {
	return time.Date(2024, time.October, 15, 0, 0, 0, 0, loc)
}
