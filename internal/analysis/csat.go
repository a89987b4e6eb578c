package analysis

import "fmt"

// CsatThreshold splits successful from failed calls.
const CsatThreshold = 80

// CallSignals bundles the detector outputs for one call. Nil slices and nil
// pointers mean "not detected".
type CallSignals struct {
	NoConversation bool
	Loops          []Loop
	Premature      *PrematureEnding
	Pauses         []Pause
	Interruptions  []Interruption
	Sentiment      *SentimentReport
}

// CsatScore synthesizes a 0-100 satisfaction proxy from the detector
// signals, starting at 100 and applying independent additive penalties.
// Reasons mirror penalty-application order: no-conversation, loops,
// premature ending, pauses, interruptions, sentiment.
func CsatScore(signals CallSignals) (int, []string) {
	score := 100
	reasons := []string{}

	if signals.NoConversation {
		score -= 30
		reasons = append(reasons, "No meaningful conversation detected")
	}

	if n := len(signals.Loops); n > 0 {
		score -= minInt(n*10, 30)
		reasons = append(reasons, fmt.Sprintf("Detected %d conversation loops", n))
	}

	if signals.Premature != nil {
		score -= 20
		if signals.Premature.AbruptDisconnection {
			reasons = append(reasons, "Call ended abruptly")
		}
		if signals.Premature.IncompleteConversation {
			reasons = append(reasons, "Conversation ended prematurely")
		}
	}

	if n := len(signals.Pauses); n > 0 {
		score -= minInt(n*5, 20)
		reasons = append(reasons, fmt.Sprintf("Detected %d long pauses", n))
	}

	if n := len(signals.Interruptions); n > 0 {
		score -= minInt(n*5, 20)
		reasons = append(reasons, fmt.Sprintf("Detected %d interruptions", n))
	}

	if signals.Sentiment != nil {
		switch signals.Sentiment.Overall {
		case SentimentNegative:
			score -= 20
			reasons = append(reasons, "Overall negative customer sentiment")
		case SentimentNeutral:
			score -= 10
			reasons = append(reasons, "Neutral customer sentiment")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

// AnalyzeCall runs every detector over a normalized transcript. Loop, pause,
// interruption, premature-ending and sentiment detectors only run when a
// real exchange took place.
func AnalyzeCall(transcript []Utterance, disconnectionReason string) CallSignals {
	signals := CallSignals{NoConversation: NoConversation(transcript)}
	if signals.NoConversation {
		return signals
	}

	signals.Loops = DetectLoops(transcript)
	signals.Premature = DetectPrematureEnding(transcript, disconnectionReason)
	signals.Pauses = DetectPauses(transcript)
	signals.Interruptions = DetectInterruptions(transcript)
	signals.Sentiment = AnalyzeSentiment(transcript)
	return signals
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
