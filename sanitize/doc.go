// Package sanitize contains the defensive text handling shared by all log
// facilities: newline canonicalization, control and bidi codepoint
// neutralization for terminal and HTML contexts, strict HTML escaping, and
// the allow-list fragment validator that gates every rendered HTML row.
//
// The normalization functions are total: they never fail, they only replace.
// [ValidateFragment] is the opposite — it rejects anything that is not
// exactly the expected row schema, and it runs on self-produced output too,
// so a bug in the renderer cannot commit unsafe bytes.
package sanitize
