package chunk

import "strings"

const separator = "\n"

// Build greedily packs units into chunks in a single forward pass.
//
// The first unit of a chunk is always accepted, however long. A later unit
// joins the current chunk only while the chunk is still shorter than MaxSize
// and the joined result stays within MaxAllowed; otherwise the chunk is
// closed and the unit starts the next one. A chunk that has reached MaxSize
// is never topped up further.
func Build(units []string, p Params) []string {
	maxAllowed := p.MaxAllowed()

	var (
		chunks     []string
		current    []string
		currentLen int
	)
	for _, unit := range units {
		unitLen := length(unit)
		if len(current) == 0 {
			current = append(current, unit)
			currentLen = unitLen
			continue
		}

		newLen := currentLen + unitLen + len(separator)
		if currentLen < p.MaxSize && newLen <= maxAllowed {
			current = append(current, unit)
			currentLen = newLen
			continue
		}

		chunks = append(chunks, strings.Join(current, separator))
		current = []string{unit}
		currentLen = unitLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, separator))
	}
	return chunks
}

// ResplitOversized replaces every chunk longer than MaxAllowed with the
// result of building its sentences. Only one level of fallback is applied:
// a sentence that alone exceeds MaxAllowed stays a chunk of its own.
func ResplitOversized(chunks []string, p Params) []string {
	maxAllowed := p.MaxAllowed()

	result := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if length(chunk) <= maxAllowed {
			result = append(result, chunk)
			continue
		}
		result = append(result, Build(SplitSentences(chunk), p)...)
	}
	return result
}
