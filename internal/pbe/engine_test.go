package pbe

import (
	"encoding/base64"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestEngine_RoundTripAllAlgorithms(t *testing.T) {
	for _, alg := range SupportedAlgorithms() {
		t.Run(alg, func(t *testing.T) {
			e := newTestEngine(t, Config{Password: "secret", Algorithm: alg})

			for _, plaintext := range []string{"", "p", "jdbc:mysql://db:3306/app", "sixteen byte msg", "pässwörd ✓"} {
				ciphertext, err := e.Encrypt(plaintext)
				require.NoError(t, err)

				got, err := e.Decrypt(ciphertext)
				require.NoError(t, err)
				assert.Equal(t, plaintext, got)
			}
		})
	}
}

// Ciphertexts of "hello" built with hashlib and openssl from password
// "secret" and salt/IV bytes 0x00, 0x01, ... in Jasypt's salt|iv|ct layout.
func TestEngine_DecryptsKnownAnswers(t *testing.T) {
	tests := []struct {
		algorithm  string
		ciphertext string
	}{
		{"PBEWithHMACSHA512AndAES_256", "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh9deWvUBV4pPXU4J7b0JfN1"},
		{"PBEWithMD5AndDES", "AAECAwQFBgcMJrYmexHLCw=="},
	}

	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			e := newTestEngine(t, Config{Password: "secret", Algorithm: tt.algorithm})

			got, err := e.Decrypt(tt.ciphertext)
			require.NoError(t, err)
			assert.Equal(t, "hello", got)
		})
	}
}

func TestEngine_DefaultsApplied(t *testing.T) {
	e := newTestEngine(t, Config{Password: "secret", Algorithm: DefaultAlgorithm})

	cfg := e.Config()
	assert.Equal(t, DefaultIterations, cfg.Iterations)
	assert.Equal(t, DefaultPoolSize, cfg.PoolSize)
	assert.Equal(t, DefaultSaltGenerator, cfg.SaltGenerator)
	assert.Equal(t, OutputBase64, cfg.OutputType)
	assert.Equal(t, RandomIVGenerator, cfg.IVPolicy())
}

func TestEngine_WireLayout(t *testing.T) {
	t.Run("AES carries salt and IV", func(t *testing.T) {
		e := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithHMACSHA512AndAES_256"})

		ciphertext, err := e.Encrypt("hello")
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(ciphertext)
		require.NoError(t, err)

		// 16 salt + 16 IV + one 16-byte block
		assert.Len(t, raw, 48)
	})

	t.Run("DES carries salt only", func(t *testing.T) {
		e := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithMD5AndDES"})

		ciphertext, err := e.Encrypt("hello")
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(ciphertext)
		require.NoError(t, err)

		// 8 salt + one 8-byte block
		assert.Len(t, raw, 16)
	})

	t.Run("zero salt and no IV is deterministic", func(t *testing.T) {
		e := newTestEngine(t, Config{
			Password:      "secret",
			Algorithm:     "PBEWithMD5AndDES",
			SaltGenerator: ZeroSaltGenerator,
		})

		a, err := e.Encrypt("hello")
		require.NoError(t, err)
		b, err := e.Encrypt("hello")
		require.NoError(t, err)
		assert.Equal(t, a, b)

		raw, err := base64.StdEncoding.DecodeString(a)
		require.NoError(t, err)
		assert.Len(t, raw, 8)

		got, err := e.Decrypt(a)
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})
}

func TestEngine_RandomSaltProducesDistinctCiphertexts(t *testing.T) {
	e := newTestEngine(t, Config{Password: "secret", Algorithm: DefaultAlgorithm})

	a, err := e.Encrypt("same")
	require.NoError(t, err)
	b, err := e.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEngine_AlgorithmNameIsCaseInsensitive(t *testing.T) {
	e := newTestEngine(t, Config{Password: "secret", Algorithm: "pbewithhmacsha256andaes_128"})

	ciphertext, err := e.Encrypt("value")
	require.NoError(t, err)

	other := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithHMACSHA256AndAES_128"})
	got, err := other.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestEngine_IterationsPassThrough(t *testing.T) {
	e := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithMD5AndDES", SaltGenerator: "zero", Iterations: 1000})
	f := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithMD5AndDES", SaltGenerator: "zero", Iterations: 10})

	a, err := e.Encrypt("value")
	require.NoError(t, err)
	b, err := f.Encrypt("value")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "different iteration counts must derive different keys")
	assert.Equal(t, 10, f.Config().Iterations)
}

func TestEngine_DecryptNotPossible(t *testing.T) {
	aes := newTestEngine(t, Config{Password: "secret", Algorithm: DefaultAlgorithm})
	des := newTestEngine(t, Config{Password: "secret", Algorithm: "PBEWithMD5AndDES"})

	tests := []struct {
		name   string
		engine *Engine
		input  string
	}{
		{"plain text", aes, "my-db-password"},
		{"not base64", aes, "not base64!"},
		{"shorter than salt", aes, base64.StdEncoding.EncodeToString(make([]byte, 8))},
		{"no ciphertext after salt and IV", aes, base64.StdEncoding.EncodeToString(make([]byte, 32))},
		{"partial block", aes, base64.StdEncoding.EncodeToString(make([]byte, 40))},
		{"partial DES block", des, base64.StdEncoding.EncodeToString(make([]byte, 12))},
		{"empty", des, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.engine.Decrypt(tt.input)
			assert.ErrorIs(t, err, kerrors.ErrDecryptionNotPossible)
			assert.NotErrorIs(t, err, kerrors.ErrUnexpectedCrypto)
		})
	}
}

func TestNew_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty password", Config{Algorithm: DefaultAlgorithm}},
		{"empty algorithm", Config{Password: "secret"}},
		{"empty both", Config{}},
		{"unsupported algorithm", Config{Password: "secret", Algorithm: "PBEWithSHA1AndRC4_128"}},
		{"negative iterations", Config{Password: "secret", Algorithm: DefaultAlgorithm, Iterations: -1}},
		{"negative pool size", Config{Password: "secret", Algorithm: DefaultAlgorithm, PoolSize: -2}},
		{"hex output", Config{Password: "secret", Algorithm: DefaultAlgorithm, OutputType: "hexadecimal"}},
		{"unknown salt generator", Config{Password: "secret", Algorithm: DefaultAlgorithm, SaltGenerator: "com.example.Salt"}},
		{"unknown IV generator", Config{Password: "secret", Algorithm: DefaultAlgorithm, IVGenerator: "com.example.Iv"}},
		{"AES without IV", Config{Password: "secret", Algorithm: DefaultAlgorithm, IVGenerator: NoIVGenerator}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, kerrors.ErrConfig)
		})
	}
}

func TestIVPolicy(t *testing.T) {
	assert.Equal(t, RandomIVGenerator, Config{Algorithm: "PBEWithHMACSHA1AndAES_128"}.IVPolicy())
	assert.Equal(t, NoIVGenerator, Config{Algorithm: "PBEWithMD5AndDES"}.IVPolicy())
	assert.Equal(t, "custom", Config{Algorithm: "PBEWithMD5AndDES", IVGenerator: "custom"}.IVPolicy())
}

type failingSalt struct{}

func (failingSalt) GenerateSalt(int) ([]byte, error)          { return nil, errors.New("entropy exhausted") }
func (failingSalt) IncludePlainSaltInEncryptionResults() bool { return true }

func TestEngine_GeneratorFailureIsUnexpected(t *testing.T) {
	RegisterSaltGenerator("test.FailingSalt", func() SaltGenerator { return failingSalt{} })

	e := newTestEngine(t, Config{Password: "secret", Algorithm: DefaultAlgorithm, SaltGenerator: "test.FailingSalt"})

	_, err := e.Encrypt("value")
	assert.ErrorIs(t, err, kerrors.ErrUnexpectedCrypto)
	assert.NotErrorIs(t, err, kerrors.ErrDecryptionNotPossible)
}

func TestSupportedAlgorithms(t *testing.T) {
	algs := SupportedAlgorithms()
	assert.Contains(t, algs, "PBEWithMD5AndDES")
	assert.Contains(t, algs, DefaultAlgorithm)
	assert.Len(t, algs, 12)
}
