package remit

import (
	"os"

	"github.com/oarkflow/edi835/pkg/tokenizer"
)

// Parse builds a document from raw 835 text. Content carrying
// non-standard control-character delimiters is normalized first and
// tokenized with the terminator the normalization produced.
func Parse(content string) (*TransactionSet, error) {
	terminator := tokenizer.DefaultTerminator
	if tokenizer.NeedsNormalization(content) {
		terminator = tokenizer.TerminatorFor(content)
		content = tokenizer.Normalize(content)
	}
	segs := tokenizer.Split(content, terminator, tokenizer.DefaultSeparator)
	return Build(segs)
}

// ParseFile reads and parses one 835 file.
func ParseFile(path string) (*TransactionSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content))
}
