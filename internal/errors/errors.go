package errors

import (
	"context"
	"errors"
)

// Configuration errors indicate problems finding or reading jasypt settings.
var (
	// ErrConfigNotFound indicates no jasypt.encryptor.password was found in the
	// document or any of its sibling default files.
	ErrConfigNotFound = errors.New("no jasypt configuration found")

	// ErrConfig indicates a jasypt section exists but is malformed.
	ErrConfig = errors.New("invalid jasypt configuration")

	// ErrEnvUnset indicates a ${VAR} password reference could not be resolved.
	ErrEnvUnset = errors.New("environment variable not set and no default value")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrDecryptionNotPossible indicates the value is not ciphertext produced
	// with the current settings (wrong password, corrupt or plain input).
	ErrDecryptionNotPossible = errors.New("decryption not possible")

	// ErrUnexpectedCrypto indicates any other cryptographic failure.
	ErrUnexpectedCrypto = errors.New("unexpected cryptographic failure")
)

// Processing errors indicate a file could not be rewritten.
var (
	// ErrProcessing indicates the rewrite of a document was aborted.
	ErrProcessing = errors.New("failed to process document")
)

// File errors indicate issues with file discovery or access.
var (
	// ErrUnsupportedFileType indicates the file is not yml, yaml or properties.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")
)

// Preference errors indicate a bad config set or unset.
var (
	// ErrUnknownPreference indicates the key is not a known preference.
	ErrUnknownPreference = errors.New("unknown preference")

	// ErrInvalidPreference indicates the value is not valid for the key.
	ErrInvalidPreference = errors.New("invalid preference value")
)

// Input errors indicate invalid command-line values.
var (
	// ErrInvalidDateFormat indicates a date flag is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Kind names used in batch reports.
const (
	KindConfigNotFound      = "config_not_found"
	KindConfig              = "config"
	KindEnvUnset            = "env_unset"
	KindDecryption          = "decryption"
	KindUnexpectedCrypto    = "unexpected_crypto"
	KindUnsupportedFileType = "unsupported_file_type"
	KindProcessing          = "processing"
	KindCanceled            = "canceled"
	KindIO                  = "io"
)

// Kind returns a stable name for the category of err, or "" for nil.
// The most specific category wins, so a processing error caused by an
// unexpected crypto failure is reported as unexpected_crypto.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigNotFound):
		return KindConfigNotFound
	case errors.Is(err, ErrEnvUnset):
		return KindEnvUnset
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrUnexpectedCrypto):
		return KindUnexpectedCrypto
	case errors.Is(err, ErrDecryptionNotPossible):
		return KindDecryption
	case errors.Is(err, ErrUnsupportedFileType):
		return KindUnsupportedFileType
	case errors.Is(err, ErrProcessing):
		return KindProcessing
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindIO
	}
}

// IsBenign reports whether err means "nothing to do for this file" rather
// than a failure.
func IsBenign(err error) bool {
	return errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrUnsupportedFileType)
}
