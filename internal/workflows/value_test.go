package workflows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/jasyptor/internal/configs"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
)

func TestEncryptDecryptValue(t *testing.T) {
	ctx := context.Background()
	opts := ValueOptions{Value: "s3cret", Password: "pw", Algorithm: "PBEWithHMACSHA256AndAES_128"}

	wrapped, err := EncryptValue(ctx, opts)
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	if !strings.HasPrefix(wrapped, "ENC(") || !strings.HasSuffix(wrapped, ")") {
		t.Fatalf("expected ENC(...) output, got %q", wrapped)
	}

	opts.Value = wrapped
	plain, err := DecryptValue(ctx, opts)
	if err != nil {
		t.Fatalf("DecryptValue of wrapped value failed: %v", err)
	}
	if plain != "s3cret" {
		t.Errorf("expected s3cret, got %q", plain)
	}

	opts.Value = "s3cret"
	opts.Bare = true
	bare, err := EncryptValue(ctx, opts)
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	if strings.HasPrefix(bare, "ENC(") {
		t.Errorf("bare output should not be wrapped: %q", bare)
	}

	opts.Value = bare
	if plain, err = DecryptValue(ctx, opts); err != nil || plain != "s3cret" {
		t.Errorf("DecryptValue of bare value: %q, %v", plain, err)
	}
}

func TestDecryptValue_WrongInput(t *testing.T) {
	_, err := DecryptValue(context.Background(), ValueOptions{Value: "ENC(not-ciphertext)", Password: "pw"})
	if !errors.Is(err, kerrors.ErrDecryptionNotPossible) {
		t.Errorf("expected ErrDecryptionNotPossible, got %v", err)
	}
}

func TestValueOptions_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "application.yml"),
		"jasypt:\n  encryptor:\n    password: ${APP_PW:from-default}\n    algorithm: PBEWithSHA1AndDES\n")
	app := writeTestFile(t, filepath.Join(dir, "app.yml"), "x: 1\n")

	ct, err := EncryptValue(context.Background(), ValueOptions{Value: "v", ConfigFile: app, Bare: true, Env: jasyptconf.MapEnv{"APP_PW": "from-env"}})
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}

	engine, err := pbe.New(pbe.Config{Password: "from-env", Algorithm: "PBEWithSHA1AndDES"})
	if err != nil {
		t.Fatal(err)
	}
	if got, err := engine.Decrypt(ct); err != nil || got != "v" {
		t.Errorf("value was not encrypted with the config file settings: %q, %v", got, err)
	}

	// Explicit options override the file.
	ct, err = EncryptValue(context.Background(), ValueOptions{Value: "v", ConfigFile: app, Password: "override", Bare: true, Env: jasyptconf.MapEnv{}})
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	engine, _ = pbe.New(pbe.Config{Password: "override", Algorithm: "PBEWithSHA1AndDES"})
	if got, err := engine.Decrypt(ct); err != nil || got != "v" {
		t.Errorf("explicit password did not override the file: %q, %v", got, err)
	}
}

func TestValueOptions_PreferencesAndPrompt(t *testing.T) {
	ctx := context.Background()
	prefs := configs.NewMemoryStore(map[string]string{
		configs.KeyPassword:  "remembered",
		configs.KeyAlgorithm: "PBEWithMD5AndDES",
	})

	ct, err := EncryptValue(ctx, ValueOptions{Value: "v", Preferences: prefs, Bare: true})
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	engine, _ := pbe.New(pbe.Config{Password: "remembered", Algorithm: "PBEWithMD5AndDES"})
	if got, err := engine.Decrypt(ct); err != nil || got != "v" {
		t.Errorf("preferences were not used: %q, %v", got, err)
	}

	prompted := 0
	prompt := func() (string, error) {
		prompted++
		return "typed", nil
	}
	ct, err = EncryptValue(ctx, ValueOptions{Value: "v", PromptPassword: prompt, Bare: true})
	if err != nil {
		t.Fatalf("EncryptValue failed: %v", err)
	}
	if prompted != 1 {
		t.Errorf("expected one prompt, got %d", prompted)
	}
	engine, _ = pbe.New(pbe.Config{Password: "typed", Algorithm: pbe.DefaultAlgorithm})
	if got, err := engine.Decrypt(ct); err != nil || got != "v" {
		t.Errorf("prompted password was not used: %q, %v", got, err)
	}

	_, err = EncryptValue(ctx, ValueOptions{Value: "v", Password: "given", PromptPassword: prompt})
	if err != nil || prompted != 1 {
		t.Errorf("prompt should not be called when a password is given")
	}

	_, err = EncryptValue(ctx, ValueOptions{Value: "v", PromptPassword: func() (string, error) { return "", fmt.Errorf("no tty") }})
	if err == nil {
		t.Error("expected prompt failure to be returned")
	}
}

func TestValueOptions_NoPassword(t *testing.T) {
	_, err := EncryptValue(context.Background(), ValueOptions{Value: "v"})
	if !errors.Is(err, kerrors.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}

	_, err = EncryptValue(context.Background(), ValueOptions{Value: "v", Password: "${JASYPTOR_TEST_NEVER_SET}", Env: jasyptconf.MapEnv{}})
	if !errors.Is(err, kerrors.ErrEnvUnset) {
		t.Errorf("expected ErrEnvUnset, got %v", err)
	}
}
