package analysis

import "strings"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

var positiveWords = toSet([]string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"helpful", "perfect", "thank", "thanks", "appreciate", "happy",
	"pleased", "satisfied", "love", "awesome", "brilliant", "yes",
})

var negativeWords = toSet([]string{
	"bad", "poor", "terrible", "horrible", "awful", "disappointed",
	"frustrating", "useless", "unhelpful", "waste", "annoying",
	"angry", "upset", "hate", "wrong", "no", "not", "never",
})

// SentimentEntry is the per-utterance result for one customer message.
type SentimentEntry struct {
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// SentimentReport carries per-utterance labels plus the call-level
// aggregate. Overall is empty when no customer utterance contained a
// sentiment-lexicon word at all, so a contentless exchange carries no
// sentiment signal either way.
type SentimentReport struct {
	Entries []SentimentEntry `json:"entries"`
	Overall string           `json:"overall_sentiment,omitempty"`
}

// AnalyzeSentiment scores every customer utterance independently against the
// fixed lexicons and aggregates an overall label by majority of the
// utterances that actually hit the lexicons (ties resolve to neutral).
// Returns nil when the transcript has no customer utterances.
func AnalyzeSentiment(transcript []Utterance) *SentimentReport {
	var entries []SentimentEntry
	counts := map[string]int{}

	for _, u := range transcript {
		if u.Role != RoleCustomer {
			continue
		}
		score, hits := sentimentScore(u.Content)
		label := classifySentiment(score)
		entries = append(entries, SentimentEntry{
			Timestamp: u.StartTimestamp,
			Message:   u.Content,
			Sentiment: label,
			Score:     score,
		})
		if hits > 0 {
			counts[label]++
		}
	}
	if entries == nil {
		return nil
	}

	return &SentimentReport{Entries: entries, Overall: majorityLabel(counts)}
}

// sentimentScore is (positive hits − negative hits) / total hits, 0 when no
// lexicon word matched. The hit count is returned so callers can tell a
// balanced score from a silent one.
func sentimentScore(text string) (float64, int) {
	score := 0
	hits := 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := positiveWords[w]; ok {
			score++
			hits++
		} else if _, ok := negativeWords[w]; ok {
			score--
			hits++
		}
	}
	if hits == 0 {
		return 0, 0
	}
	return float64(score) / float64(hits), hits
}

func classifySentiment(score float64) string {
	switch {
	case score > 0.3:
		return SentimentPositive
	case score < -0.3:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// majorityLabel picks the label with a strict majority among contributing
// utterances; any tie for the top resolves to neutral.
func majorityLabel(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	pos, neg, neu := counts[SentimentPositive], counts[SentimentNegative], counts[SentimentNeutral]
	switch {
	case pos > neg && pos > neu:
		return SentimentPositive
	case neg > pos && neg > neu:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
