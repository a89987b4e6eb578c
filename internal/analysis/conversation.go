package analysis

import (
	"regexp"
	"strings"
)

// NoConversation reports whether the transcript lacks a real exchange:
// empty, or one of the two roles never speaks.
func NoConversation(transcript []Utterance) bool {
	if len(transcript) == 0 {
		return true
	}

	var hasAgent, hasCustomer bool
	for _, u := range transcript {
		switch u.Role {
		case RoleAgent:
			hasAgent = true
		case RoleCustomer:
			hasCustomer = true
		}
	}
	return !(hasAgent && hasCustomer)
}

// Ordered: the first pattern that matches in the first customer utterance
// containing any match wins.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is ([A-Z][a-z]+ ?[A-Z]?[a-z]*)`),
	regexp.MustCompile(`(?i)this is ([A-Z][a-z]+ ?[A-Z]?[a-z]*)`),
	regexp.MustCompile(`(?i)([A-Z][a-z]+ ?[A-Z]?[a-z]*) speaking`),
	regexp.MustCompile(`(?i)([A-Z][a-z]+ ?[A-Z]?[a-z]*) here`),
}

// ExtractCustomerName scans customer utterances in order for common
// self-introduction phrasings and returns the first captured name, or ""
// when none match.
func ExtractCustomerName(transcript []Utterance) string {
	for _, u := range transcript {
		if u.Role != RoleCustomer {
			continue
		}
		for _, p := range namePatterns {
			if m := p.FindStringSubmatch(u.Content); len(m) > 1 && m[1] != "" {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}
