// Package record defines the value types shared by every log facility: the
// closed [Level], [Nature], and [Theme] enumerations with their Parse
// helpers, and the immutable [Record] built once per routed message.
//
// Levels gate delivery ([LevelDebug] is below [LevelInfo]); natures classify
// a message independently of its level ([NatureInfo], [NatureWarning],
// [NatureError]). Parsing is case-insensitive and trims surrounding
// whitespace:
//
//	lvl, err := record.ParseLevel("debug")
//	nat, err := record.ParseNature(" ERROR ")
package record
