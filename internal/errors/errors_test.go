package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"config not found", fmt.Errorf("resolving: %w", ErrConfigNotFound), KindConfigNotFound},
		{"config", fmt.Errorf("password: %w", ErrConfig), KindConfig},
		{"env unset", fmt.Errorf("DB_PASS: %w", ErrEnvUnset), KindEnvUnset},
		{"decryption", ErrDecryptionNotPossible, KindDecryption},
		{"unexpected crypto inside processing", fmt.Errorf("%w: token 1: %w", ErrProcessing, ErrUnexpectedCrypto), KindUnexpectedCrypto},
		{"processing", fmt.Errorf("%w: boom", ErrProcessing), KindProcessing},
		{"unsupported", ErrUnsupportedFileType, KindUnsupportedFileType},
		{"canceled", context.Canceled, KindCanceled},
		{"other", errors.New("disk full"), KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsBenign(t *testing.T) {
	if !IsBenign(fmt.Errorf("app.yml: %w", ErrConfigNotFound)) {
		t.Error("Expected wrapped ErrConfigNotFound to be benign")
	}
	if !IsBenign(ErrUnsupportedFileType) {
		t.Error("Expected ErrUnsupportedFileType to be benign")
	}
	if IsBenign(ErrConfig) {
		t.Error("Expected ErrConfig to be a failure")
	}
	if IsBenign(nil) {
		t.Error("Expected nil not to be benign")
	}
}
