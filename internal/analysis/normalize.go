package analysis

import (
	"math"
	"sort"
)

// minUtteranceSpan keeps every utterance strictly longer than zero even when
// the upstream word timings collapse onto a single instant.
const minUtteranceSpan = 0.1

// Normalize converts raw per-word timed entries into a monotonic,
// non-overlapping sequence of timed utterances. Entries without words are
// skipped. An utterance start that would precede the previous utterance's
// end is clamped up to it: dialogue turns cannot start before the prior turn
// ended in the source data's convention.
func Normalize(entries []RawEntry) []Utterance {
	if len(entries) == 0 {
		return nil
	}

	out := make([]Utterance, 0, len(entries))
	previousEnd := 0.0

	for _, entry := range entries {
		words := entry.Words
		if len(words) == 0 {
			continue
		}

		sorted := make([]Word, len(words))
		copy(sorted, words)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

		start := sorted[0].Start
		if start < previousEnd {
			start = previousEnd
		}

		end := sorted[len(sorted)-1].End
		if end <= start {
			end = start + minUtteranceSpan
		}
		previousEnd = end

		out = append(out, Utterance{
			Role:           entry.Role,
			Content:        entry.Content,
			StartTimestamp: round3(start),
			EndTimestamp:   round3(end),
		})
	}

	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
