package summary

import "strings"

// ResolveAuthors merges explicit @-mentions with fuzzy free-text names from
// the intent into a set of member ids. Explicit mentions (minus the bot
// itself) take absolute precedence; otherwise each free-text name is matched
// against the roster by exact key, then by unique prefix. Ambiguous names
// are dropped silently. A nil result means "no author filter".
func ResolveAuthors(names []string, mentions []string, roster []Member, selfID string) []string {
	if explicit := dedupeIDs(mentions, selfID); len(explicit) > 0 {
		return explicit
	}
	if len(names) == 0 {
		return nil
	}

	// Lookup keyed by lower-cased display/global/user name, bots skipped.
	// First writer wins so display names shadow usernames.
	candidates := make(map[string]string)
	for _, m := range roster {
		if m.Bot {
			continue
		}
		for _, key := range []string{m.DisplayName, m.GlobalName, m.Username} {
			if key == "" {
				continue
			}
			k := strings.ToLower(key)
			if _, ok := candidates[k]; !ok {
				candidates[k] = m.ID
			}
		}
	}

	var resolved []string
	for _, raw := range names {
		key := strings.ToLower(normalizeName(raw))
		if key == "" {
			continue
		}
		if id, ok := candidates[key]; ok {
			if id != selfID {
				resolved = append(resolved, id)
			}
			continue
		}
		var hits []string
		for k, id := range candidates {
			if strings.HasPrefix(k, key) {
				hits = append(hits, id)
			}
		}
		// A prefix match counts only when exactly one roster key remains.
		if len(hits) == 1 && hits[0] != selfID {
			resolved = append(resolved, hits[0])
		}
	}

	return dedupeIDs(resolved, selfID)
}

// normalizeName strips the French contraction prefixes ("d'Elsia",
// "l'Ancien") and surrounding mention markup before comparison.
func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range []string{"d'", "d’", "l'", "l’"} {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.TrimLeft(s, "@#<>'\"` ")
	s = strings.TrimRight(s, ">'\"` ")
	return strings.TrimSpace(s)
}

func dedupeIDs(ids []string, selfID string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == selfID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
