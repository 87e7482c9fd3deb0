package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FetchValid retrieves the channel history for one query: a bounded raw
// fetch within the window, then filtering, then a sort in the requested
// order, then the count cap. The requested order decides which messages
// survive the cap; Chronological re-orders survivors for prompt assembly.
//
// Filtered out: empty messages, bot messages, and messages that mention the
// pipeline's own account (those are commands, not content).
func FetchValid(ctx context.Context, src HistorySource, q ResolvedQuery, selfID string, log zerolog.Logger) ([]ChannelMessage, error) {
	var after time.Time
	if q.Window.Start != nil {
		after = *q.Window.Start
	}

	raw, err := src.History(ctx, after, q.Window.End, rawFetchBound)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	kept := make([]ChannelMessage, 0, len(raw))
	for _, msg := range raw {
		if msg.Content == "" {
			continue
		}
		if msg.Bot {
			continue
		}
		if mentionsUser(msg, selfID) {
			continue
		}
		if q.Authors != nil && !authorAllowed(msg, q.Authors) {
			continue
		}
		kept = append(kept, msg)
	}
	log.Info().Int("raw", len(raw)).Int("kept", len(kept)).Msg("retrieve: messages filtered")

	sort.SliceStable(kept, func(i, j int) bool {
		if q.Ascending {
			return kept[i].CreatedAt.Before(kept[j].CreatedAt)
		}
		return kept[j].CreatedAt.Before(kept[i].CreatedAt)
	})

	if q.Limit > 0 && len(kept) > q.Limit {
		kept = kept[:q.Limit]
	}
	return kept, nil
}

// Chronological returns a copy of msgs sorted ascending by creation time,
// the order the generator always sees regardless of the selection order.
func Chronological(msgs []ChannelMessage) []ChannelMessage {
	out := append([]ChannelMessage(nil), msgs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func mentionsUser(msg ChannelMessage, id string) bool {
	for _, m := range msg.Mentions {
		if m == id {
			return true
		}
	}
	return false
}

func authorAllowed(msg ChannelMessage, authors []string) bool {
	name := strings.TrimSpace(msg.AuthorName)
	for _, a := range authors {
		if a == msg.AuthorID || a == name {
			return true
		}
	}
	return false
}
