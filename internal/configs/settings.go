package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths are the per-user files jasyptor reads and writes.
type Paths struct {
	ConfigDir       string
	PreferencesPath string
	AuditPath       string
}

// DefaultPaths places everything under <user config dir>/jasyptor, which is
// $XDG_CONFIG_HOME/jasyptor on Linux when the variable is set.
func DefaultPaths() (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("error getting config directory: %w", err)
	}
	dir := filepath.Join(configDir, "jasyptor")
	return Paths{
		ConfigDir:       dir,
		PreferencesPath: filepath.Join(dir, "config.toml"),
		AuditPath:       filepath.Join(dir, "audit.jsonl"),
	}, nil
}
