// Package content extracts @mentions and #hashtags from tweet text.
package content

import (
	"strings"
	"unicode"
)

const (
	mentionSigil = '@'
	hashtagSigil = '#'
)

// Parse scans text for runs that start with '@' or '#' and continue over
// letters, digits and underscores. Sigils are stripped, tokens come back in
// the order they appear and are not deduplicated. A bare sigil yields nothing.
func Parse(text string) (mentions, hashtags []string) {
	var (
		sigil rune
		token strings.Builder
	)

	flush := func() {
		if sigil != 0 && token.Len() > 0 {
			switch sigil {
			case mentionSigil:
				mentions = append(mentions, token.String())
			case hashtagSigil:
				hashtags = append(hashtags, token.String())
			}
		}
		sigil = 0
		token.Reset()
	}

	for _, r := range text {
		switch {
		case r == mentionSigil || r == hashtagSigil:
			flush()
			sigil = r
		case isWordRune(r):
			if sigil != 0 {
				token.WriteRune(r)
			}
		default:
			flush()
		}
	}
	flush()

	return mentions, hashtags
}

// Unique returns tokens with later repeats removed.
func Unique(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
