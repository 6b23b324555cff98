package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/jasyptor/internal/configs"
	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
	"github.com/PolarWolf314/jasyptor/internal/rewrite"
)

// ValueOptions configures EncryptValue and DecryptValue.
type ValueOptions struct {
	Value string

	// ConfigFile, if set, is resolved like a processed document and its
	// settings are used. Explicit fields below override it.
	ConfigFile string

	Password      string
	Algorithm     string
	Iterations    int
	SaltGenerator string
	IVGenerator   string

	// Bare returns the ciphertext without the ENC(...) wrapper.
	Bare bool

	Env         jasyptconf.Env
	Loader      document.Loader
	Preferences configs.Preferences

	// PromptPassword is called when no password was found anywhere else.
	PromptPassword func() (string, error)
}

// EncryptValue encrypts a single value and returns it as ENC(ciphertext),
// or the bare ciphertext when opts.Bare is set.
func EncryptValue(ctx context.Context, opts ValueOptions) (string, error) {
	engine, err := valueEngine(ctx, opts)
	if err != nil {
		return "", err
	}

	ciphertext, err := engine.Encrypt(opts.Value)
	if err != nil {
		return "", err
	}
	if opts.Bare {
		return ciphertext, nil
	}
	return rewrite.Wrap(ciphertext), nil
}

// DecryptValue decrypts a bare or ENC(...)-wrapped ciphertext.
//
// Returns ErrDecryptionNotPossible if the value is not ciphertext for the
// resolved settings.
func DecryptValue(ctx context.Context, opts ValueOptions) (string, error) {
	engine, err := valueEngine(ctx, opts)
	if err != nil {
		return "", err
	}

	body, _ := rewrite.Unwrap(opts.Value)
	return engine.Decrypt(body)
}

func valueEngine(ctx context.Context, opts ValueOptions) (*pbe.Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := valueConfig(opts)
	if err != nil {
		return nil, err
	}
	return pbe.New(cfg)
}

// valueConfig merges, from highest priority: explicit options, the config
// file, preferences, then prompting for the password.
func valueConfig(opts ValueOptions) (pbe.Config, error) {
	var cfg pbe.Config
	if opts.ConfigFile != "" {
		resolved, err := jasyptconf.NewResolver(opts.Loader, opts.Env).Resolve(opts.ConfigFile)
		if err != nil {
			return pbe.Config{}, err
		}
		cfg = resolved.Config
	}

	if opts.Password != "" {
		password, err := jasyptconf.ResolveValue(opts.Password, opts.Env)
		if err != nil {
			return pbe.Config{}, err
		}
		cfg.Password = password
	}
	if opts.Algorithm != "" {
		cfg.Algorithm = opts.Algorithm
	}
	if opts.Iterations != 0 {
		cfg.Iterations = opts.Iterations
	}
	if opts.SaltGenerator != "" {
		cfg.SaltGenerator = opts.SaltGenerator
	}
	if opts.IVGenerator != "" {
		cfg.IVGenerator = opts.IVGenerator
	}

	if opts.Preferences != nil {
		if v, ok := opts.Preferences.Get(configs.KeyPassword); ok && cfg.Password == "" {
			cfg.Password = v
		}
		if v, ok := opts.Preferences.Get(configs.KeyAlgorithm); ok && cfg.Algorithm == "" {
			cfg.Algorithm = v
		}
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = pbe.DefaultAlgorithm
	}

	if cfg.Password == "" && opts.PromptPassword != nil {
		password, err := opts.PromptPassword()
		if err != nil {
			return pbe.Config{}, fmt.Errorf("reading password: %w", err)
		}
		cfg.Password = password
	}
	if cfg.Password == "" {
		return pbe.Config{}, fmt.Errorf("%w: no password given", kerrors.ErrConfig)
	}

	return cfg, nil
}
