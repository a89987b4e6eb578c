package analysis

const (
	longPauseThreshold = 5.0 // seconds, inclusive
	overlapThreshold   = 0.5 // seconds, inclusive
)

// Pause is a silent gap between two consecutive utterances.
type Pause struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Interruption is a window where an utterance started before the previous
// one ended.
type Interruption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// DetectPauses reports gaps of at least 5 seconds between consecutive
// utterances; nil when none qualify.
func DetectPauses(transcript []Utterance) []Pause {
	if len(transcript) < 2 {
		return nil
	}

	var pauses []Pause
	for i := 1; i < len(transcript); i++ {
		prev := transcript[i-1]
		cur := transcript[i]

		gap := cur.StartTimestamp - prev.EndTimestamp
		if gap >= longPauseThreshold {
			pauses = append(pauses, Pause{
				Start:    prev.EndTimestamp,
				End:      cur.StartTimestamp,
				Duration: gap,
			})
		}
	}
	return pauses
}

// DetectInterruptions reports overlaps of at least 0.5 seconds between
// consecutive utterances; nil when none qualify.
func DetectInterruptions(transcript []Utterance) []Interruption {
	if len(transcript) < 2 {
		return nil
	}

	var interruptions []Interruption
	for i := 1; i < len(transcript); i++ {
		prev := transcript[i-1]
		cur := transcript[i]

		if cur.StartTimestamp < prev.EndTimestamp {
			overlap := prev.EndTimestamp - cur.StartTimestamp
			if overlap >= overlapThreshold {
				interruptions = append(interruptions, Interruption{
					Start: cur.StartTimestamp,
					End:   prev.EndTimestamp,
				})
			}
		}
	}
	return interruptions
}
