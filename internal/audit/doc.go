// Package audit records batch runs in a JSON Lines log.
//
// Each non-dry run of the process command appends one entry with a run id,
// the paths it was given and how many files it found, changed and failed
// on. The log lives at:
//
//	<user config dir>/jasyptor/audit.jsonl
//
// Secret values never appear in the log.
//
// Logging is best-effort. If the entry cannot be written the operation
// still succeeds.
package audit
