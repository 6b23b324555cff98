// Package rewrite finds ENC(...) tokens in document text and replaces each
// one with its plaintext or a fresh ciphertext. Text outside the tokens is
// copied byte for byte.
package rewrite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
)

// tokenPattern is lazy and does not nest: a value never spans a ")" that
// is followed by another ENC(.
var tokenPattern = regexp.MustCompile(`ENC\((.*?)\)`)

// Token is one ENC(...) occurrence. Start and End are byte offsets of the
// whole token in the scanned text.
type Token struct {
	Start int
	End   int
	Value string
}

// Cipher encrypts and decrypts single values.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Result is the outcome of a rewrite.
type Result struct {
	Text          string
	TokensFound   int
	TokensChanged int
}

// Wrap returns value as an ENC(...) token.
func Wrap(value string) string {
	return "ENC(" + value + ")"
}

// Unwrap returns the body of s when s is exactly one ENC(...) token.
func Unwrap(s string) (string, bool) {
	s = strings.TrimSpace(s)
	m := tokenPattern.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) {
		return s, false
	}
	return s[m[2]:m[3]], true
}

// Scan returns the tokens in text from left to right.
func Scan(text string) []Token {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{Start: m[0], End: m[1], Value: text[m[2]:m[3]]})
	}
	return tokens
}

// Replace decides the replacement for one token value. Ciphertext becomes
// its plaintext; anything the cipher cannot decrypt is encrypted and
// wrapped in ENC(...).
func Replace(value string, c Cipher) (string, error) {
	plain, err := c.Decrypt(value)
	if err == nil {
		return plain, nil
	}
	if !errors.Is(err, kerrors.ErrDecryptionNotPossible) {
		return "", err
	}

	ciphertext, err := c.Encrypt(value)
	if err != nil {
		return "", err
	}
	return Wrap(ciphertext), nil
}

// Rewrite replaces every token in text. Any failure other than a value that
// cannot be decrypted aborts the rewrite; the returned error wraps
// ErrProcessing and never contains the token value.
func Rewrite(text string, c Cipher) (Result, error) {
	tokens := Scan(text)
	if len(tokens) == 0 {
		return Result{Text: text}, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	res := Result{TokensFound: len(tokens)}
	last := 0
	for i, tok := range tokens {
		repl, err := Replace(tok.Value, c)
		if err != nil {
			return Result{}, fmt.Errorf("%w: token %d at offset %d: %w", kerrors.ErrProcessing, i+1, tok.Start, err)
		}

		b.WriteString(text[last:tok.Start])
		b.WriteString(repl)
		last = tok.End

		if repl != text[tok.Start:tok.End] {
			res.TokensChanged++
		}
	}
	b.WriteString(text[last:])

	res.Text = b.String()
	return res, nil
}
