package summary

import "strings"

// truncationMarker is appended whenever Fit had to cut the text.
const truncationMarker = "\n… (résumé tronqué)"

// fitNewlineWindow is how far back from the cut point Fit will move to end
// on a line break instead of mid-sentence.
const fitNewlineWindow = 300

// Fit guarantees the result is at most hardLimit characters (runes, matching
// how the platform counts). Oversized text is cut at target, preferring the
// nearest earlier line break within fitNewlineWindow, then marked truncated;
// the cut shrinks further if the marker itself would not fit.
func Fit(s string, hardLimit, target int) string {
	runes := []rune(s)
	if len(runes) <= hardLimit {
		return s
	}
	if target > hardLimit {
		target = hardLimit
	}

	cut := runes[:target]
	if nl := lastNewline(cut); nl != -1 && nl >= target-fitNewlineWindow {
		cut = cut[:nl]
	}

	out := strings.TrimRight(string(cut), " \t\r\n")
	marker := []rune(truncationMarker)
	if hardLimit <= len(marker) {
		// Pathological limit: no room for the marker at all.
		return string([]rune(out)[:min(hardLimit, len([]rune(out)))])
	}
	if outRunes := []rune(out); len(outRunes)+len(marker) > hardLimit {
		out = string(outRunes[:hardLimit-len(marker)])
	}
	return out + truncationMarker
}

// Chunk splits s into sequential slices of at most size runes, for delivery
// across several platform messages. Empty input yields one empty chunk so
// callers always have something to send.
func Chunk(s string, size int) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return []string{""}
	}
	if size <= 0 {
		size = ChunkSize
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
