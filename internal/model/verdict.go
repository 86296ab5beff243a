package model

import "strings"

const (
	OriginalWorkMarker        = "Verdict: ✅ Likely Original Work"
	PotentialPlagiarismMarker = "Verdict: ⚠️ Potential Plagiarism Detected"
)

type Verdict string

const (
	VerdictOriginalWork        Verdict = "original_work"
	VerdictPotentialPlagiarism Verdict = "potential_plagiarism"
	VerdictUnparsed            Verdict = "unparsed"
)

// ParseVerdict looks for one of the two verdict markers in the checker
// output. The emoji is optional so that models which drop it still parse.
// When both markers appear the last one wins.
func ParseVerdict(analysis string) Verdict {
	normalized := strings.ToLower(analysis)
	original := lastIndexAny(normalized, strings.ToLower(OriginalWorkMarker), "verdict: likely original work")
	plagiarism := lastIndexAny(normalized, strings.ToLower(PotentialPlagiarismMarker), "verdict: potential plagiarism detected", "verdict: ⚠ potential plagiarism detected")

	switch {
	case original < 0 && plagiarism < 0:
		return VerdictUnparsed
	case original > plagiarism:
		return VerdictOriginalWork
	default:
		return VerdictPotentialPlagiarism
	}
}

func lastIndexAny(s string, needles ...string) int {
	idx := -1
	for _, n := range needles {
		if i := strings.LastIndex(s, n); i > idx {
			idx = i
		}
	}
	return idx
}

func (v Verdict) Label() string {
	switch v {
	case VerdictOriginalWork:
		return "Likely Original Work"
	case VerdictPotentialPlagiarism:
		return "Potential Plagiarism Detected"
	default:
		return "No verdict"
	}
}
