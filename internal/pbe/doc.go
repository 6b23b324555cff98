// Package pbe turns resolved jasypt settings into a working password-based
// encryptor whose output is interchangeable with Jasypt's
// PooledPBEStringEncryptor.
//
// # Wire Format
//
// Encrypt produces base64(salt || iv || ciphertext). The salt is present
// when the salt generator includes it in results (random salt does, zero
// salt does not); the IV likewise (random IV does, no IV does not). Salt and
// IV are one cipher block long: 16 bytes for AES, 8 for DES.
//
// # Algorithms
//
//   - PBEWithHMACSHA{1,224,256,384,512}AndAES_{128,256}: PBKDF2 over the
//     UTF-8 password, AES-CBC with PKCS#5 padding and a generated IV.
//   - PBEWithMD5AndDES, PBEWithSHA1AndDES: PKCS#5 v1.5 iterated digest of
//     password||salt; the first 8 bytes are the DES key, the next 8 the IV.
//
// # IV Policy
//
// An explicit IV generator id wins. Otherwise algorithms whose name contains
// "AES" get a random IV and everything else gets none.
//
// # Errors
//
// Decrypt reports ErrDecryptionNotPossible for anything that means "this is
// not ciphertext for these settings": bad base64, wrong length, bad padding,
// or non UTF-8 plaintext. Every other failure is ErrUnexpectedCrypto.
// Callers decide whether to fall back to encryption on that distinction
// alone.
package pbe
