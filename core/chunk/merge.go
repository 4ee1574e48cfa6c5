package chunk

// MergeShort folds every chunk shorter than MinSize into the chunk before
// it and returns the merged sequence with the number of folds.
//
// The first chunk has no predecessor and is kept even when short. A merged
// chunk is not checked against MaxAllowed again, so it may exceed it.
func MergeShort(chunks []string, p Params) ([]string, int) {
	minSize := p.MinSize()

	merged := 0
	result := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if length(chunk) < minSize && len(result) > 0 {
			last := len(result) - 1
			result[last] = result[last] + separator + chunk
			merged++
			continue
		}
		result = append(result, chunk)
	}
	return result, merged
}
