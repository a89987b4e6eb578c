package analysis

import "strings"

const loopSimilarityThreshold = 0.8

// Loop is a pair of near-identical agent utterances, identified by their
// start timestamps in original order (FirstStart < SecondStart positionally).
type Loop struct {
	FirstStart  float64 `json:"first_start"`
	SecondStart float64 `json:"second_start"`
	Similarity  float64 `json:"similarity"`
}

// DetectLoops finds agent utterance pairs whose word sets have a Jaccard
// similarity of at least 0.8. Needs at least 4 utterances overall and 2 from
// the agent; returns nil when no pair qualifies.
func DetectLoops(transcript []Utterance) []Loop {
	if len(transcript) < 4 {
		return nil
	}

	var agent []Utterance
	for _, u := range transcript {
		if u.Role == RoleAgent {
			agent = append(agent, u)
		}
	}
	if len(agent) < 2 {
		return nil
	}

	var loops []Loop
	for i := 0; i < len(agent)-1; i++ {
		for j := i + 1; j < len(agent); j++ {
			sim := jaccardSimilarity(agent[i].Content, agent[j].Content)
			if sim >= loopSimilarityThreshold {
				loops = append(loops, Loop{
					FirstStart:  agent[i].StartTimestamp,
					SecondStart: agent[j].StartTimestamp,
					Similarity:  sim,
				})
			}
		}
	}
	return loops
}

// jaccardSimilarity compares lower-cased whitespace-tokenized word sets:
// |A∩B| / |A∪B|.
func jaccardSimilarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)

	union := len(setB)
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
