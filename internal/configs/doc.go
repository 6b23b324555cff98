// Package configs manages jasyptor's per-user preferences.
//
// Preferences are the settings a user wants remembered between runs: a
// default password and algorithm for the encrypt and decrypt commands, the
// default worker count for process, and whether runs are audited. They are
// stored in TOML at:
//
//	<user config dir>/jasyptor/config.toml
//
// under a [preferences] table. The file is created with mode 0600.
//
// Nothing in the core packages reads preferences on its own. Commands build
// a Preferences (a FileStore, or a MemoryStore in tests) and pass it to the
// workflows that need it.
package configs
