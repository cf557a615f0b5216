package tokenizer

import "strings"

// Control characters some clearinghouses emit instead of the standard
// printable delimiters.
const (
	groupSeparator  = "\x1d"
	recordSeparator = "\x1e"
	unitSeparator   = "\x1f"
)

// NeedsNormalization reports whether content carries the non-standard
// control-character delimiters that Normalize rewrites.
func NeedsNormalization(content string) bool {
	return strings.ContainsAny(content, groupSeparator+recordSeparator+unitSeparator)
}

// Normalize rewrites control-character delimiters into the standard
// set and strips embedded line breaks:
//
//	0x1d (group separator)  -> '*' (element separator)
//	0x1e (record separator) -> '~' (segment terminator)
//	0x1f (unit separator)   -> ':' (alternate segment terminator)
//	'\n'                    -> removed
//
// Normalized content that contained unit separators tokenizes with
// AltTerminator.
func Normalize(content string) string {
	replacer := strings.NewReplacer(
		groupSeparator, DefaultSeparator,
		recordSeparator, DefaultTerminator,
		"\n", "",
		unitSeparator, AltTerminator,
	)
	return replacer.Replace(content)
}

// TerminatorFor picks the segment terminator for raw file content.
// Unit separators normalize to ':', so such content tokenizes with
// AltTerminator; everything else, normalized or not, keeps '~'.
func TerminatorFor(content string) string {
	if strings.Contains(content, unitSeparator) {
		return AltTerminator
	}
	return DefaultTerminator
}
