// Package ui provides semantic text formatting for jasyptor output.
//
// Formatters render with color when the terminal supports it. When NO_COLOR
// is set or the terminal cannot show colors, text decorations are used
// instead so the output stays readable in logs and CI:
//
//	ui.Code.Sprint("jasyptor process .")  // `jasyptor process .`
//	ui.Path.Sprint("application.yml")      // application.yml
//	ui.Kind.Sprint("env_unset")            // [env_unset]
//	ui.Muted.Sprint("skipped")             // (skipped)
//
// The status marks (Check, Cross, Arrow, Dot) are the prefixes used by every
// command's final summary.
package ui
