package extraction

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/prompts"
	"github.com/jonathan/hr-agent/internal/types"
)

// Classification is the routing decision derived from an email's text.
type Classification struct {
	Kind         types.RequestKind
	TargetUserID string
	// Rule names the matched pattern, "llm_fallback" when the model
	// call decided, or "default" when nothing matched.
	Rule string
}

type patternRule struct {
	name string
	re   *regexp.Regexp
}

// Find-best rules are evaluated before specific-user rules: an email
// like "find the best candidate for John's role" names John without
// targeting him.
var findBestRules = []patternRule{
	{"find-best-verb", regexp.MustCompile(`(?i)\b(?:find|select|choose|recommend|suggest|pick|identify)\b[^.\n]{0,60}\bbest\b[^.\n]{0,40}\b(?:candidate|match|person|fit|profile)`)},
	{"best-candidate", regexp.MustCompile(`(?i)\bbest\s+(?:candidate|match|fit|applicant|profile)\b`)},
	{"from-pool", regexp.MustCompile(`(?i)\b(?:from|among|in)\s+(?:our|the|your)\s+(?:talent\s+pool|candidate\s+pool|profiles?|candidates?|applicants?|pool|database)\b`)},
	{"recommend-candidate", regexp.MustCompile(`(?i)\brecommend\s+(?:a\s+|the\s+)?(?:candidate|applicant|someone)\b`)},
	{"most-suitable", regexp.MustCompile(`(?i)\b(?:most\s+suitable|most\s+qualified|ideal|top)\s+(?:candidate|applicant|match)\b`)},
}

// Specific-user rules capture the named token in group 1.
var specificUserRules = []patternRule{
	{"resume-of", regexp.MustCompile(`(?i)\b(?:resume|cv|profile)\s+of\s+([A-Za-z0-9_.-]+)`)},
	{"possessive-resume", regexp.MustCompile(`(?i)\b([A-Za-z0-9_.-]+)(?:'s|’s)\s+(?:resume|cv|profile|documents)\b`)},
	{"profile-for", regexp.MustCompile(`(?i)\bprofile\s+(?:data\s+)?for\s+([A-Za-z0-9_.-]+)\b`)},
	{"hire-user", regexp.MustCompile(`(?i)\bhire\s+([A-Za-z0-9_.-]+)\b`)},
}

// userTokenStopwords filters capture groups that are ordinary words
// rather than user ids ("hire the...", "profile for this...").
var userTokenStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"our": true, "your": true, "their": true, "my": true, "me": true,
	"someone": true, "somebody": true, "anyone": true, "him": true, "her": true,
	"manager": true, "team": true, "role": true, "position": true, "process": true,
}

// Classify decides what the sender wants. Deterministic pattern rules
// are tried first, in fixed priority order; only when none match is a
// single yes/no model call consulted. Any model failure yields the
// general-posting kind.
func (e *Extractor) Classify(ctx context.Context, emailText string) Classification {
	for _, rule := range findBestRules {
		if rule.re.MatchString(emailText) {
			return Classification{Kind: types.KindFindBestCandidate, Rule: rule.name}
		}
	}

	for _, rule := range specificUserRules {
		m := rule.re.FindStringSubmatch(emailText)
		if len(m) < 2 {
			continue
		}
		token := normalizeUserToken(m[1])
		if token == "" {
			continue
		}
		return Classification{Kind: types.KindSpecificUser, TargetUserID: token, Rule: rule.name}
	}

	if e.client != nil {
		if kind, ok := e.classifyWithLLM(ctx, emailText); ok {
			return Classification{Kind: kind, Rule: "llm_fallback"}
		}
	}

	return Classification{Kind: types.KindGeneralPosting, Rule: "default"}
}

// classifyWithLLM asks the model a single yes/no question about the
// email. The second return value is false when the call failed.
func (e *Extractor) classifyWithLLM(ctx context.Context, emailText string) (types.RequestKind, bool) {
	template := prompts.MustGet("extraction.json", "classify-best-candidate")
	prompt := prompts.Format(template, map[string]string{"EmailText": emailText})

	answer, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("classification fallback call failed: %v", err)
		return types.KindGeneralPosting, false
	}

	if llm.IsAffirmative(answer) {
		return types.KindFindBestCandidate, true
	}
	return types.KindGeneralPosting, true
}

// normalizeUserToken lowercases a captured user token and rejects
// ordinary words.
func normalizeUserToken(token string) string {
	token = strings.ToLower(strings.Trim(token, ".,;:'\""))
	if token == "" || userTokenStopwords[token] {
		return ""
	}
	return token
}
