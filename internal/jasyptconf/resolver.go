package jasyptconf

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
	"github.com/hengadev/errsx"
)

// Setting names under jasypt.encryptor.
const (
	KeyPassword      = "password"
	KeyAlgorithm     = "algorithm"
	KeySaltGenerator = "salt-generator-classname"
	KeyIVGenerator   = "iv-generator-classname"
	KeyIterations    = "key-obtention-iterations"
	KeyPoolSize      = "pool-size"
	KeyOutputType    = "string-output-type"
)

// Resolved is an encryption configuration and the file it came from.
type Resolved struct {
	Config pbe.Config
	Source string
}

// Resolver resolves the encryption configuration for documents.
type Resolver struct {
	loader document.Loader
	env    Env
}

// NewResolver returns a Resolver reading documents through loader and
// expanding ${NAME} references through env. Nil arguments select the local
// filesystem and the process environment.
func NewResolver(loader document.Loader, env Env) *Resolver {
	if loader == nil {
		loader = document.FS{}
	}
	if env == nil {
		env = OSEnv{}
	}
	return &Resolver{loader: loader, env: env}
}

// Candidates returns the files searched for path, in order.
func Candidates(path string, kind document.Kind) []string {
	var siblings []string
	switch kind {
	case document.YAML:
		siblings = []string{"application.yml", "application.yaml"}
	case document.Properties:
		siblings = []string{"application.properties", "application.yml"}
	}

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	out := []string{path}
	for _, name := range siblings {
		sibling := filepath.Join(dir, name)
		if sibling != path {
			out = append(out, sibling)
		}
	}
	return out
}

// Resolve returns the configuration that applies to the document at path.
// It fails with ErrConfigNotFound when no file in the chain defines a
// password.
func (r *Resolver) Resolve(path string) (*Resolved, error) {
	kind, err := document.KindOf(path)
	if err != nil {
		return nil, err
	}

	for i, candidate := range Candidates(path, kind) {
		doc, err := r.loader.Load(candidate)
		if err != nil {
			if i > 0 && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, candidate)
			}
			return nil, fmt.Errorf("loading %s: %w", candidate, err)
		}

		settings, err := section(doc)
		if err != nil {
			return nil, err
		}
		if _, ok := settings[KeyPassword]; !ok {
			continue
		}

		cfg, err := r.build(settings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", candidate, err)
		}
		return &Resolved{Config: cfg, Source: candidate}, nil
	}

	return nil, fmt.Errorf("%s: %w", path, kerrors.ErrConfigNotFound)
}

func (r *Resolver) build(settings map[string]string) (pbe.Config, error) {
	resolved := make(map[string]string, len(settings))
	for k, v := range settings {
		val, err := ResolveValue(v, r.env)
		if err != nil {
			return pbe.Config{}, fmt.Errorf("%s%s: %w", sectionPrefix, k, err)
		}
		resolved[k] = val
	}

	cfg := pbe.Config{
		Password:      resolved[KeyPassword],
		Algorithm:     strings.TrimSpace(resolved[KeyAlgorithm]),
		SaltGenerator: strings.TrimSpace(resolved[KeySaltGenerator]),
		IVGenerator:   strings.TrimSpace(resolved[KeyIVGenerator]),
		OutputType:    strings.TrimSpace(resolved[KeyOutputType]),
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = pbe.DefaultAlgorithm
	}

	var errs errsx.Map
	if cfg.Password == "" {
		errs.Set(KeyPassword, "must not be empty")
	}
	if v, ok := resolved[KeyIterations]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Set(KeyIterations, fmt.Sprintf("not a number: %q", v))
		}
		cfg.Iterations = n
	}
	if v, ok := resolved[KeyPoolSize]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Set(KeyPoolSize, fmt.Sprintf("not a number: %q", v))
		}
		cfg.PoolSize = n
	}
	if !errs.IsEmpty() {
		return pbe.Config{}, fmt.Errorf("%w: %v", kerrors.ErrConfig, errs.AsError())
	}

	return cfg.WithDefaults(), nil
}
