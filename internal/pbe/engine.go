package pbe

import (
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
)

// Engine encrypts and decrypts strings with one resolved configuration.
// It is safe for concurrent use; at most PoolSize operations run at once.
type Engine struct {
	cfg  Config
	alg  algorithm
	salt SaltGenerator
	iv   IVGenerator
	pool chan struct{}
}

// New validates cfg (after applying defaults) and builds an Engine.
// Configuration problems are reported as ErrConfig.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alg, _ := lookupAlgorithm(cfg.Algorithm)

	salt, err := newSaltGenerator(cfg.SaltGenerator)
	if err != nil {
		return nil, err
	}
	iv, err := newIVGenerator(cfg.IVPolicy())
	if err != nil {
		return nil, err
	}
	if alg.pbes2 {
		if probe, _ := iv.GenerateIV(alg.blockSize); len(probe) != alg.blockSize {
			return nil, fmt.Errorf("%w: algorithm %s requires an IV generator that produces %d-byte IVs", kerrors.ErrConfig, alg.name, alg.blockSize)
		}
	}

	return &Engine{
		cfg:  cfg,
		alg:  alg,
		salt: salt,
		iv:   iv,
		pool: make(chan struct{}, cfg.PoolSize),
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) acquire() func() {
	e.pool <- struct{}{}
	return func() { <-e.pool }
}

// Encrypt returns the base64 jasypt ciphertext of plaintext. Every call uses
// fresh salt and IV from the configured generators.
func (e *Engine) Encrypt(plaintext string) (string, error) {
	defer e.acquire()()

	bs := e.alg.blockSize
	salt, err := e.salt.GenerateSalt(bs)
	if err != nil {
		return "", fmt.Errorf("%w: generating salt: %v", kerrors.ErrUnexpectedCrypto, err)
	}
	iv, err := e.iv.GenerateIV(bs)
	if err != nil {
		return "", fmt.Errorf("%w: generating IV: %v", kerrors.ErrUnexpectedCrypto, err)
	}

	block, cbcIV, err := e.alg.derive(e.cfg.Password, salt, iv, e.cfg.Iterations)
	if err != nil {
		return "", fmt.Errorf("%w: deriving key: %v", kerrors.ErrUnexpectedCrypto, err)
	}
	if len(cbcIV) != bs {
		return "", fmt.Errorf("%w: IV is %d bytes, want %d", kerrors.ErrUnexpectedCrypto, len(cbcIV), bs)
	}

	data := pkcs5Pad([]byte(plaintext), bs)
	cipher.NewCBCEncrypter(block, cbcIV).CryptBlocks(data, data)

	var out []byte
	if e.salt.IncludePlainSaltInEncryptionResults() {
		out = append(out, salt...)
	}
	if e.iv.IncludePlainIVInEncryptionResults() {
		out = append(out, iv...)
	}
	out = append(out, data...)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A value that is not ciphertext for this
// configuration yields ErrDecryptionNotPossible.
func (e *Engine) Decrypt(ciphertext string) (string, error) {
	defer e.acquire()()

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: not base64", kerrors.ErrDecryptionNotPossible)
	}

	bs := e.alg.blockSize
	var salt, iv []byte
	if e.salt.IncludePlainSaltInEncryptionResults() {
		if len(raw) < bs {
			return "", fmt.Errorf("%w: message too short", kerrors.ErrDecryptionNotPossible)
		}
		salt, raw = raw[:bs], raw[bs:]
	} else if salt, err = e.salt.GenerateSalt(bs); err != nil {
		return "", fmt.Errorf("%w: generating salt: %v", kerrors.ErrUnexpectedCrypto, err)
	}
	if e.iv.IncludePlainIVInEncryptionResults() {
		if len(raw) < bs {
			return "", fmt.Errorf("%w: message too short", kerrors.ErrDecryptionNotPossible)
		}
		iv, raw = raw[:bs], raw[bs:]
	} else if iv, err = e.iv.GenerateIV(bs); err != nil {
		return "", fmt.Errorf("%w: generating IV: %v", kerrors.ErrUnexpectedCrypto, err)
	}

	if len(raw) == 0 || len(raw)%bs != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", kerrors.ErrDecryptionNotPossible)
	}

	block, cbcIV, err := e.alg.derive(e.cfg.Password, salt, iv, e.cfg.Iterations)
	if err != nil {
		return "", fmt.Errorf("%w: deriving key: %v", kerrors.ErrUnexpectedCrypto, err)
	}
	if len(cbcIV) != bs {
		return "", fmt.Errorf("%w: IV is %d bytes, want %d", kerrors.ErrUnexpectedCrypto, len(cbcIV), bs)
	}

	data := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, cbcIV).CryptBlocks(data, raw)

	plain, err := pkcs5Unpad(data, bs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrDecryptionNotPossible, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", kerrors.ErrDecryptionNotPossible)
	}
	return string(plain), nil
}
