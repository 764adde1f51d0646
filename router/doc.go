// Package router routes log messages to named facilities.
//
// A [Router] always carries a console facility under the reserved handle
// "console" and can register plain-text and HTML file facilities with
// [Router.AddLogFile] and [Router.AddHTMLLogFile]. Messages are gated by a
// minimum [record.Level], normalized and clipped against configured limits,
// and fanned out to the selected facilities under a global fixed-window
// write throttle.
//
// Configuration follows the usual pattern: create a [Config] with
// [NewConfig] or [LoadConfig], register CLI flags with
// [Config.RegisterFlags], and build a fully wired instance with
// [Config.NewRouter].
package router
