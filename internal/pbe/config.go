package pbe

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/hengadev/errsx"
)

const (
	DefaultAlgorithm     = "PBEWithHMACSHA512AndAES_256"
	DefaultSaltGenerator = "org.jasypt.salt.RandomSaltGenerator"
	DefaultIterations    = 1000
	DefaultPoolSize      = 1
	OutputBase64         = "base64"
)

// Config holds the settings an Engine is built from.
type Config struct {
	Password  string
	Algorithm string

	// SaltGenerator and IVGenerator are registry ids. An empty IVGenerator
	// selects the IV policy from the algorithm name.
	SaltGenerator string
	IVGenerator   string

	OutputType string
	Iterations int
	PoolSize   int
}

// WithDefaults fills the optional fields left at their zero value. Password
// and algorithm are never defaulted here.
func (c Config) WithDefaults() Config {
	if c.SaltGenerator == "" {
		c.SaltGenerator = DefaultSaltGenerator
	}
	if c.OutputType == "" {
		c.OutputType = OutputBase64
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize
	}
	return c
}

// IVPolicy returns the IV generator id the engine will use.
func (c Config) IVPolicy() string {
	if c.IVGenerator != "" {
		return c.IVGenerator
	}
	if strings.Contains(strings.ToUpper(c.Algorithm), "AES") {
		return RandomIVGenerator
	}
	return NoIVGenerator
}

// Validate checks every field and reports all problems at once, wrapped in
// ErrConfig.
func (c Config) Validate() error {
	var errs errsx.Map

	if c.Password == "" {
		errs.Set("password", "must not be empty")
	}
	if c.Algorithm == "" {
		errs.Set("algorithm", "must not be empty")
	} else if _, ok := lookupAlgorithm(c.Algorithm); !ok {
		errs.Set("algorithm", fmt.Sprintf("unsupported algorithm %q", c.Algorithm))
	}
	if c.Iterations < 1 {
		errs.Set("iterations", fmt.Sprintf("must be at least 1, got %d", c.Iterations))
	}
	if c.PoolSize < 1 {
		errs.Set("pool-size", fmt.Sprintf("must be at least 1, got %d", c.PoolSize))
	}
	if !strings.EqualFold(c.OutputType, OutputBase64) {
		errs.Set("string-output-type", fmt.Sprintf("unsupported output type %q", c.OutputType))
	}

	if !errs.IsEmpty() {
		return fmt.Errorf("%w: %v", kerrors.ErrConfig, errs.AsError())
	}
	return nil
}
