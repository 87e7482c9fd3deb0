package summary

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TimeResolver turns a fuzzy French time phrase into a concrete TimeWindow
// in a fixed timezone. The delegate is asked for exactly two comma-separated
// timestamps; nothing about its answer is trusted, and every failure path
// terminates in a valid window.
type TimeResolver struct {
	Delegate Completer
	Loc      *time.Location

	// StartOnlyMarkers and RangeMarkers drive the open-range correction: a
	// phrase with a start marker but no explicit range marker has its end
	// forced to the reference time, whatever the delegate said. Tuned for
	// French; re-derive for other locales.
	StartOnlyMarkers []string
	RangeMarkers     []string

	Log zerolog.Logger
}

// NewTimeResolver returns a TimeResolver with the stock French marker lists.
func NewTimeResolver(delegate Completer, loc *time.Location, log zerolog.Logger) *TimeResolver {
	return &TimeResolver{
		Delegate:         delegate,
		Loc:              loc,
		StartOnlyMarkers: []string{"depuis", "à partir de"},
		RangeMarkers:     []string{"jusqu", " à ", "entre", "et "},
		Log:              log,
	}
}

// Resolve maps phrase to a [start, end) window anchored at now, which the
// caller supplies in the resolver's timezone. An empty phrase yields an
// unbounded window ending now; any delegate or parsing failure yields the
// last 24 hours.
func (r *TimeResolver) Resolve(ctx context.Context, phrase string, now time.Time) TimeWindow {
	if strings.TrimSpace(phrase) == "" {
		return TimeWindow{End: now}
	}

	fallback := func() TimeWindow {
		start := now.AddDate(0, 0, -1)
		return TimeWindow{Start: &start, End: now}
	}

	raw, err := r.Delegate.Complete(ctx, CompletionRequest{
		Instructions: timeRangeInstructions(now.Format("2006-01-02 15:04:05")),
		Input:        phrase,
	})
	if err != nil {
		r.Log.Warn().Err(err).Str("phrase", phrase).Msg("timerange: delegate failed, using last 24h")
		return fallback()
	}

	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		r.Log.Warn().Str("raw", raw).Msg("timerange: response is not two timestamps, using last 24h")
		return fallback()
	}

	start, err := r.parseLocal(parts[0])
	if err != nil {
		r.Log.Warn().Err(err).Str("raw", parts[0]).Msg("timerange: bad start, using last 24h")
		return fallback()
	}
	end, err := r.parseLocal(parts[1])
	if err != nil {
		r.Log.Warn().Err(err).Str("raw", parts[1]).Msg("timerange: bad end, using last 24h")
		return fallback()
	}

	lower := strings.ToLower(phrase)
	if containsAny(lower, r.StartOnlyMarkers) && !containsAny(lower, r.RangeMarkers) {
		r.Log.Info().Str("phrase", phrase).Time("end", now).Msg("timerange: open range, end forced to now")
		end = now
	}

	if end.Before(start) {
		r.Log.Warn().Time("start", start).Time("end", end).Msg("timerange: inverted range, using last 24h")
		return fallback()
	}

	r.Log.Info().Time("start", start).Time("end", end).Msg("timerange: resolved")
	return TimeWindow{Start: &start, End: end}
}

// parseLocal accepts the timestamp shapes the delegate actually produces;
// naive values are localized to the resolver's zone.
func (r *TimeResolver) parseLocal(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`))
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(r.Loc), nil
	}
	var lastErr error
	for _, layout := range []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	} {
		t, err := time.ParseInLocation(layout, s, r.Loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
