// Package chunk splits raw text into size-bounded chunks.
// Sizing is by character count (runes), not tokens.
//
// The pipeline runs four stages in a fixed order:
//
//	paragraphs → greedy build → sentence resplit of oversized chunks → merge of short chunks
//
// Every stage is a pure function; a Chunker holds only its Params and is
// safe for concurrent use.
package chunk

// Chunker splits text into chunks using a fixed set of Params.
type Chunker struct {
	Params Params
}

// New creates a Chunker with the given parameters.
// Parameters are not validated here; call Params.Validate first.
func New(p Params) *Chunker {
	return &Chunker{Params: p}
}

// Split runs the full pipeline on text. See the package-level Split.
func (c *Chunker) Split(text string) ([]string, int) {
	return Split(text, c.Params)
}

// Split partitions text into chunks and reports how many short chunks were
// folded into their predecessor. Empty or whitespace-only text yields (nil, 0).
func Split(text string, p Params) ([]string, int) {
	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, 0
	}

	chunks := Build(paragraphs, p)
	chunks = ResplitOversized(chunks, p)
	return MergeShort(chunks, p)
}
