package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitParagraphs breaks text on line breaks, trims every line and drops
// the ones left empty. Line order is preserved.
func SplitParagraphs(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// SplitSentences breaks text after '.', '!' or '?' when the terminator is
// immediately followed by whitespace. The whole whitespace run is the
// separator. Abbreviations and decimals followed by a space are split too.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if !isTerminator(r) {
			continue
		}
		end := i + utf8.RuneLen(r)
		next, size := utf8.DecodeRuneInString(text[end:])
		if size == 0 || !unicode.IsSpace(next) {
			continue
		}
		sentences = appendTrimmed(sentences, text[start:end])
		start = end
	}
	return appendTrimmed(sentences, text[start:])
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendTrimmed(units []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		units = append(units, s)
	}
	return units
}

// length is the character count used for every size decision.
func length(s string) int {
	return utf8.RuneCountInString(s)
}
