package analysis

import (
	"regexp"
	"strings"
)

// Disconnection reasons containing any of these indicate an abnormal hangup.
var abnormalDisconnectTerms = []string{"error", "unexpected", "timeout"}

// Phrases the agent says right before going off to do something; a call that
// ends on one of them was cut short.
var stallingPhrases = []string{
	"let me", "i will", "please wait", "one moment",
	"hold on", "let me check", "i'll check",
}

var midSentenceEnding = regexp.MustCompile(`[,;]$|\.{3}$`)

// PrematureEnding describes why a call looks cut short, with the last two
// utterances kept for diagnostics.
type PrematureEnding struct {
	AbruptDisconnection    bool   `json:"abrupt_disconnection"`
	IncompleteConversation bool   `json:"incomplete_conversation"`
	DisconnectionReason    string `json:"disconnection_reason,omitempty"`
	LastMessage            string `json:"last_message,omitempty"`
	LastMessageRole        string `json:"last_message_role,omitempty"`
	SecondLastMessage      string `json:"second_last_message,omitempty"`
	SecondLastMessageRole  string `json:"second_last_message_role,omitempty"`
}

// DetectPrematureEnding checks the end of the transcript for abrupt
// disconnection and incomplete conversation patterns. Returns nil when the
// transcript is empty or neither check fires.
func DetectPrematureEnding(transcript []Utterance, disconnectionReason string) *PrematureEnding {
	if len(transcript) == 0 {
		return nil
	}

	last := transcript[len(transcript)-1]
	var secondLast *Utterance
	if len(transcript) > 1 {
		secondLast = &transcript[len(transcript)-2]
	}

	abrupt := isAbruptDisconnection(last, secondLast, disconnectionReason)
	incomplete := isIncompleteConversation(last, len(transcript))
	if !abrupt && !incomplete {
		return nil
	}

	result := &PrematureEnding{
		AbruptDisconnection:    abrupt,
		IncompleteConversation: incomplete,
		DisconnectionReason:    disconnectionReason,
		LastMessage:            last.Content,
		LastMessageRole:        last.Role,
	}
	if secondLast != nil {
		result.SecondLastMessage = secondLast.Content
		result.SecondLastMessageRole = secondLast.Role
	}
	return result
}

func isAbruptDisconnection(last Utterance, secondLast *Utterance, disconnectionReason string) bool {
	reason := strings.ToLower(disconnectionReason)
	for _, term := range abnormalDisconnectTerms {
		if reason != "" && strings.Contains(reason, term) {
			return true
		}
	}

	if midSentenceEnding.MatchString(strings.TrimSpace(last.Content)) {
		return true
	}

	// An agent question left hanging: nobody but the customer should have
	// the last word after the agent asks something.
	agentAskedQuestion := secondLast != nil &&
		secondLast.Role == RoleAgent &&
		strings.HasSuffix(strings.TrimSpace(secondLast.Content), "?")
	return agentAskedQuestion && last.Role != RoleCustomer
}

func isIncompleteConversation(last Utterance, transcriptLen int) bool {
	if transcriptLen < 2 {
		return false
	}

	lower := strings.ToLower(last.Content)
	for _, phrase := range stallingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	return last.Role == RoleAgent && strings.HasSuffix(strings.TrimSpace(last.Content), "?")
}
