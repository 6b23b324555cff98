// Package utils provides shared helpers for jasyptor.
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: replace a file through a temp file and rename
//
// # String Utilities
//
//   - FormatPaths: render a list of paths for a summary message
//   - MaskSecret: hide all but the edges of a password for display
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompt for a password without echo
//   - ReadPassphraseFromTTY: prompt on /dev/tty when stdin is piped
//   - ReadStdin: read a value piped on stdin
package utils
