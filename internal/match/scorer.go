package match

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"talentscout/internal/types"
)

// stopWords are discarded during tokenization; they carry no matching signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "in": {}, "of": {}, "to": {}, "a": {}, "an": {},
	"with": {}, "for": {}, "on": {}, "at": {}, "by": {}, "is": {}, "are": {},
	"as": {}, "be": {},
}

// ScoreResume computes a deterministic token-overlap score between a resume
// and a job. When record is non-nil the job text is built from its title,
// location, experience and skills; fallbackText stands in when the record
// is nil or those fields are all empty. The score is the share of unique
// job terms also found in the resume, scaled to 0-100.
func ScoreResume(resumeText string, record *types.StructuredJobRecord, fallbackText string) (int, string) {
	jobText := buildJobText(record, fallbackText)

	resumeTokens := Tokenize(resumeText)
	jobTokens := Tokenize(jobText)

	if len(resumeTokens) == 0 || len(jobTokens) == 0 {
		return 0, "Insufficient data to compute score"
	}

	overlap := 0
	for token := range jobTokens {
		if _, ok := resumeTokens[token]; ok {
			overlap++
		}
	}

	denom := len(jobTokens)
	score := int(math.Round(100 * float64(overlap) / float64(denom)))
	return score, fmt.Sprintf("Matched %d of %d JD terms.", overlap, denom)
}

func buildJobText(record *types.StructuredJobRecord, fallbackText string) string {
	if record == nil {
		return fallbackText
	}

	parts := []string{}
	for _, field := range []*string{record.JobTitle, record.Location, record.ExperienceRequired} {
		if v := types.StrVal(field); v != "" {
			parts = append(parts, v)
		}
	}
	parts = append(parts, record.SkillsRequired...)
	if joined := strings.TrimSpace(strings.Join(parts, " ")); joined != "" {
		return joined
	}
	return fallbackText
}

// Tokenize lower-cases text, extracts maximal runs of letters, digits and
// the symbols '+', '#', '.', drops stop words and returns the unique set.
func Tokenize(text string) map[string]struct{} {
	tokens := map[string]struct{}{}

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if _, stop := stopWords[token]; !stop {
			tokens[token] = struct{}{}
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
