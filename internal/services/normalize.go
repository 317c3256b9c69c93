package services

import (
	"strings"
	"unicode"
)

// NormalizeMessage prepares raw user input for the upstream provider:
// characters outside a conservative allow-list are stripped, whitespace
// runs collapse to single spaces, and immediately repeated word runs
// ("I feel sad I feel sad") collapse to one occurrence. The repetition
// filter is best-effort and cosmetic; it cannot tell a stutter from a
// deliberate repeat it does not detect.
func NormalizeMessage(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		if strings.ContainsRune(`.,!?'"()-:;`, r) {
			return r
		}
		return -1
	}, raw)

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	return strings.Join(collapseRepeatedRuns(words), " ")
}

// collapseRepeatedRuns removes immediate case-insensitive repeats of a
// word run, keeping the first occurrence. Longer runs win over shorter
// ones so "I feel sad I feel sad" collapses as one unit.
func collapseRepeatedRuns(words []string) []string {
	result := make([]string, 0, len(words))
	i := 0
	for i < len(words) {
		collapsed := false
		for runLen := (len(words) - i) / 2; runLen >= 1; runLen-- {
			if !runsEqual(words[i:i+runLen], words[i+runLen:i+2*runLen]) {
				continue
			}
			j := i + runLen
			for j+runLen <= len(words) && runsEqual(words[i:i+runLen], words[j:j+runLen]) {
				j += runLen
			}
			result = append(result, words[i:i+runLen]...)
			i = j
			collapsed = true
			break
		}
		if !collapsed {
			result = append(result, words[i])
			i++
		}
	}
	return result
}

func runsEqual(a, b []string) bool {
	for k := range a {
		if !strings.EqualFold(a[k], b[k]) {
			return false
		}
	}
	return true
}
