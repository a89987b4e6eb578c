package analysis

// Speaker roles as delivered by the telephony platform.
const (
	RoleAgent    = "agent"
	RoleCustomer = "customer"
)

// Word is one word-level timing fragment inside a raw transcript entry.
// Times are seconds from call start, fractional.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// RawEntry is one dialogue turn exactly as received upstream.
type RawEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Words   []Word `json:"words"`
}

// Utterance is one normalized dialogue turn. Utterances produced by
// Normalize are non-overlapping and non-decreasing in start time, with
// timestamps rounded to 3 decimals and a minimum span of 0.1s.
type Utterance struct {
	Role           string  `json:"role"`
	Content        string  `json:"content"`
	StartTimestamp float64 `json:"start_timestamp"`
	EndTimestamp   float64 `json:"end_timestamp"`
}
