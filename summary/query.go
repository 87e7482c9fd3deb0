package summary

import "time"

// BuildQuery turns one Intent plus the pre-resolved window and authors into
// a fully defaulted, clamped retrieval request. A nil window means the user
// gave no time phrase. Limit violations clamp and record a notice; nothing
// here ever rejects the request.
func BuildQuery(intent Intent, window *TimeWindow, authors []string, now, minStart time.Time) ResolvedQuery {
	q := ResolvedQuery{Authors: authors}

	hasTimeLimit := window != nil
	if hasTimeLimit {
		q.Window = *window
		if q.Window.Start != nil && q.Window.Start.Before(minStart) {
			start := minStart
			q.Window.Start = &start
			q.Notices = append(q.Notices, noticeDateClamped)
		}
	} else {
		start := now.AddDate(0, 0, -1)
		q.Window = TimeWindow{Start: &start, End: now}
		q.Notices = append(q.Notices, noticeNoTimeLimit)
	}

	// A zero or negative count is treated as absent, which also keeps the
	// final limit within [1, maxCountLimit].
	switch {
	case intent.CountLimit != nil && *intent.CountLimit > 0:
		raw := *intent.CountLimit
		if raw > maxCountLimit {
			q.Notices = append(q.Notices, noticeCountClamped)
			raw = maxCountLimit
		}
		q.Limit = int(raw)
	case hasTimeLimit:
		q.Limit = timeBoundCount
		q.Notices = append(q.Notices, noticeNoCountLimit)
	default:
		q.Limit = defaultCountLimit
		q.Notices = append(q.Notices, noticeNoLimits)
	}

	if intent.Ascending != nil {
		q.Ascending = *intent.Ascending
	}
	if intent.Focus != nil {
		q.Focus = *intent.Focus
	}
	return q
}
