package editorial

import "strings"

// Incremental supports normalization while text is still arriving: each
// Append grows the buffer and re-normalizes it. Block IDs derive from
// position and content, so blocks in the settled prefix keep their identity
// across calls. Owned by a single caller; not safe for concurrent use.
type Incremental struct {
	norm   *Normalizer
	title  string
	author string
	buf    strings.Builder
	doc    Document
}

// NewIncremental starts an incremental normalization pass.
func (n *Normalizer) NewIncremental(title, author string) *Incremental {
	return &Incremental{norm: n, title: title, author: author}
}

// Append adds the next text fragment and returns the document as currently
// understood. Blocks near the tail may change kind on later calls as more
// context arrives; settled blocks keep their IDs.
func (inc *Incremental) Append(fragment string) Document {
	inc.buf.WriteString(fragment)
	inc.doc = inc.norm.Normalize(inc.buf.String(), inc.title, inc.author)
	return inc.doc
}

// Document returns the latest normalized view without appending.
func (inc *Incremental) Document() Document {
	return inc.doc
}

// Len returns the accumulated buffer size in bytes.
func (inc *Incremental) Len() int {
	return inc.buf.Len()
}
