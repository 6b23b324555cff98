package jasyptconf

import (
	"fmt"
	"os"
	"regexp"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/joho/godotenv"
)

// Env looks up environment variables.
type Env interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is a fixed set of variables.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// ChainEnv consults each Env in order and returns the first hit.
type ChainEnv []Env

func (c ChainEnv) LookupEnv(key string) (string, bool) {
	for _, env := range c {
		if env == nil {
			continue
		}
		if v, ok := env.LookupEnv(key); ok {
			return v, true
		}
	}
	return "", false
}

// DotenvEnv reads variables from dotenv files. When a variable appears in
// several files the last one wins.
func DotenvEnv(paths ...string) (MapEnv, error) {
	if len(paths) == 0 {
		return MapEnv{}, nil
	}
	vars, err := godotenv.Read(paths...)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return MapEnv(vars), nil
}

var envRefPattern = regexp.MustCompile(`^\$\{([^:}]*)(?::(.*))?\}$`)

// EnvRef is a ${NAME} or ${NAME:default} reference.
type EnvRef struct {
	Name       string
	Default    string
	HasDefault bool
}

// ParseEnvRef parses s when the whole value is a reference.
func ParseEnvRef(s string) (EnvRef, bool) {
	m := envRefPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return EnvRef{}, false
	}
	ref := EnvRef{Name: s[m[2]:m[3]]}
	if m[4] >= 0 {
		ref.Default = s[m[4]:m[5]]
		ref.HasDefault = true
	}
	return ref, true
}

// Resolve returns the variable's value, or the default when it is unset.
func (r EnvRef) Resolve(env Env) (string, error) {
	if env != nil {
		if v, ok := env.LookupEnv(r.Name); ok {
			return v, nil
		}
	}
	if r.HasDefault {
		return r.Default, nil
	}
	return "", fmt.Errorf("%w: ${%s}", kerrors.ErrEnvUnset, r.Name)
}

// ResolveValue expands s if it is an environment reference and returns it
// unchanged otherwise.
func ResolveValue(s string, env Env) (string, error) {
	ref, ok := ParseEnvRef(s)
	if !ok {
		return s, nil
	}
	return ref.Resolve(env)
}
