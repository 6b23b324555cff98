// Package workflows provides high-level orchestration for jasyptor commands.
//
// Workflows coordinate the core packages (jasyptconf, pbe, rewrite) with
// file discovery, preferences and the audit log to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners, and output
// formatting.
//
// # Available Workflows
//
//   - Process: rewrites the ENC(...) tokens of files and directories
//   - EncryptValue, DecryptValue: encrypt or decrypt one value
//   - Resolve: shows which jasypt settings apply to a file
//   - Log: reads the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, so the CLI
// layer can pick a message without string matching:
//
//	_, err := workflows.Resolve(ctx, opts)
//	if errors.Is(err, kerrors.ErrConfigNotFound) {
//	    // Explain where jasypt.encryptor.password is looked for
//	}
//
// Process is different: per-file errors are recorded on each FileResult and
// the batch continues. Only discovery problems are returned.
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Process checks it between files; a file is never abandoned half-way.
package workflows
