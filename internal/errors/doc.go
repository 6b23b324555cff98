// Package errors provides typed error values for jasyptor.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The batch
// processor depends on this: a file whose error is benign is reported as
// skipped, everything else is reported as a failure for that file only.
//
// # Error Categories
//
//   - Configuration errors: no jasypt settings, malformed settings,
//     unresolved environment indirection (ErrConfigNotFound, ErrConfig,
//     ErrEnvUnset)
//   - Crypto errors: ErrDecryptionNotPossible drives the decrypt-then-encrypt
//     fallback and is never shown to the user; ErrUnexpectedCrypto is fatal
//   - File errors: ErrUnsupportedFileType, ErrFileNotFound, ErrNoFilesFound
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s: %w", path, errors.ErrConfig)
//
// Classify errors for reports:
//
//	kind := errors.Kind(err) // "config", "env_unset", ...
package errors
