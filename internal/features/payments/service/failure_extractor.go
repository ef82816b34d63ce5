package service

import (
	"regexp"
	"strings"
)

// FailureExtractor recovers the rejected order IDs from a platform error message.
// An empty result means the failure cannot be attributed to specific orders.
type FailureExtractor func(errorMsg string) []string

// bracketList matches the first [...] group, without crossing line breaks.
var bracketList = regexp.MustCompile(`\[(.*?)\]`)

// ExtractFailedIDs returns the comma separated, whitespace trimmed tokens
// inside the first bracketed group of errorMsg, e.g.
//
//	"order [102, 103] not payable" -> ["102", "103"]
//
// This is coupled to the wording of the cross-border pay API's error text,
// which is undocumented. If the platform changes the format, extraction
// returns nothing and the whole batch is reported failed. Tokens are not
// filtered, so "[]" yields a single empty token.
func ExtractFailedIDs(errorMsg string) []string {
	m := bracketList.FindStringSubmatch(errorMsg)
	if m == nil {
		return []string{}
	}

	parts := strings.Split(m[1], ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, strings.TrimSpace(p))
	}
	return ids
}
