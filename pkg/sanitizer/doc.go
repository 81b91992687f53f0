// Package sanitizer normalizes caller-supplied guest data before it is
// validated and stored. Guest names keep their letters but lose stray
// whitespace; phone numbers are normalized to E.164 when they parse for one
// of the supported regions, and passed through untouched otherwise (the
// reservation core treats them as opaque contact strings, not identities).
package sanitizer
