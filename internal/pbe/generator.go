package pbe

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
)

// SaltGenerator produces the salt mixed into key derivation.
type SaltGenerator interface {
	GenerateSalt(n int) ([]byte, error)
	// IncludePlainSaltInEncryptionResults reports whether the salt is
	// prepended to the ciphertext. When it is not, decryption regenerates it.
	IncludePlainSaltInEncryptionResults() bool
}

// IVGenerator produces the initialization vector for one encryption.
type IVGenerator interface {
	GenerateIV(n int) ([]byte, error)
	IncludePlainIVInEncryptionResults() bool
}

// Well-known generator ids. The jasypt class names are accepted so existing
// *-generator-classname settings keep working.
const (
	RandomSaltGenerator = "org.jasypt.salt.RandomSaltGenerator"
	ZeroSaltGenerator   = "org.jasypt.salt.ZeroSaltGenerator"
	RandomIVGenerator   = "org.jasypt.iv.RandomIvGenerator"
	NoIVGenerator       = "org.jasypt.iv.NoIvGenerator"
)

var (
	registryMu     sync.RWMutex
	saltGenerators = map[string]func() SaltGenerator{}
	ivGenerators   = map[string]func() IVGenerator{}
)

func init() {
	random := func() SaltGenerator { return randomSalt{r: rand.Reader} }
	zero := func() SaltGenerator { return zeroSalt{} }
	RegisterSaltGenerator(RandomSaltGenerator, random)
	RegisterSaltGenerator("random", random)
	RegisterSaltGenerator(ZeroSaltGenerator, zero)
	RegisterSaltGenerator("zero", zero)

	randIV := func() IVGenerator { return randomIV{r: rand.Reader} }
	none := func() IVGenerator { return noIV{} }
	RegisterIVGenerator(RandomIVGenerator, randIV)
	RegisterIVGenerator("random", randIV)
	RegisterIVGenerator(NoIVGenerator, none)
	RegisterIVGenerator("none", none)
}

// RegisterSaltGenerator makes a salt generator available under id,
// replacing any previous registration.
func RegisterSaltGenerator(id string, factory func() SaltGenerator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	saltGenerators[id] = factory
}

// RegisterIVGenerator makes an IV generator available under id, replacing
// any previous registration.
func RegisterIVGenerator(id string, factory func() IVGenerator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	ivGenerators[id] = factory
}

func newSaltGenerator(id string) (SaltGenerator, error) {
	registryMu.RLock()
	factory, ok := saltGenerators[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown salt generator %q", kerrors.ErrConfig, id)
	}
	return factory(), nil
}

func newIVGenerator(id string) (IVGenerator, error) {
	registryMu.RLock()
	factory, ok := ivGenerators[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown IV generator %q", kerrors.ErrConfig, id)
	}
	return factory(), nil
}

type randomSalt struct{ r io.Reader }

func (g randomSalt) GenerateSalt(n int) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := io.ReadFull(g.r, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (randomSalt) IncludePlainSaltInEncryptionResults() bool { return true }

type zeroSalt struct{}

func (zeroSalt) GenerateSalt(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func (zeroSalt) IncludePlainSaltInEncryptionResults() bool {
	return false
}

type randomIV struct{ r io.Reader }

func (g randomIV) GenerateIV(n int) ([]byte, error) {
	iv := make([]byte, n)
	if _, err := io.ReadFull(g.r, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (randomIV) IncludePlainIVInEncryptionResults() bool { return true }

type noIV struct{}

func (noIV) GenerateIV(int) ([]byte, error) {
	return nil, nil
}

func (noIV) IncludePlainIVInEncryptionResults() bool {
	return false
}
