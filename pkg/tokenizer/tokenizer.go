package tokenizer

import (
	"strings"
)

// Default delimiters for X12 835 content. Preprocessed files (see
// Normalize) carry ':' as the segment terminator instead.
const (
	DefaultTerminator = "~"
	AltTerminator     = ":"
	DefaultSeparator  = "*"
)

// Segment is one delimited record of an 835 document: a short leading
// tag plus the ordered raw elements. Elements[0] is the tag itself.
type Segment struct {
	Tag      string
	Elements []string
}

// Element returns the raw element at position i, or "" when the
// segment has fewer elements. Trailing optional elements are commonly
// omitted in real files.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s.Elements) {
		return ""
	}
	return s.Elements[i]
}

// Raw re-joins the segment's elements with the given separator.
func (s Segment) Raw(separator string) string {
	return strings.Join(s.Elements, separator)
}

// Split tokenizes a full document into ordered segments. Records are
// split on terminator, trimmed, and empty records dropped; each record
// is further split on separator. No semantic interpretation happens
// here.
func Split(content, terminator, separator string) []Segment {
	if terminator == "" {
		terminator = DefaultTerminator
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	records := strings.Split(content, terminator)
	segments := make([]Segment, 0, len(records))
	for _, record := range records {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		elements := strings.Split(record, separator)
		segments = append(segments, Segment{
			Tag:      elements[0],
			Elements: elements,
		})
	}
	return segments
}

// Join renders segments back to document text. Tokenization is
// lossless up to surrounding whitespace: re-splitting the joined text
// yields an identical segment sequence.
func Join(segments []Segment, terminator, separator string) string {
	if terminator == "" {
		terminator = DefaultTerminator
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Raw(separator))
		b.WriteString(terminator)
	}
	return b.String()
}
