package jasyptconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolve_OwnSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yml", `
server:
  port: 8080
jasypt:
  encryptor:
    password: hunter2
    algorithm: PBEWithMD5AndDES
    key-obtention-iterations: 500
    pool-size: 2
`)

	got, err := NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, path, got.Source)
	assert.Equal(t, "hunter2", got.Config.Password)
	assert.Equal(t, "PBEWithMD5AndDES", got.Config.Algorithm)
	assert.Equal(t, 500, got.Config.Iterations)
	assert.Equal(t, 2, got.Config.PoolSize)
	assert.Equal(t, pbe.DefaultSaltGenerator, got.Config.SaltGenerator)
}

func TestResolve_FlatYAMLKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", "jasypt.encryptor.password: flat\njasypt.encryptor.iv-generator-classname: org.jasypt.iv.RandomIvGenerator\n")

	got, err := NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "flat", got.Config.Password)
	assert.Equal(t, pbe.RandomIVGenerator, got.Config.IVGenerator)
}

func TestResolve_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yml", "jasypt:\n  encryptor:\n    password: secret\n")

	got, err := NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, pbe.DefaultAlgorithm, got.Config.Algorithm)
	assert.Equal(t, pbe.DefaultIterations, got.Config.Iterations)
	assert.Equal(t, pbe.DefaultPoolSize, got.Config.PoolSize)
	assert.Equal(t, pbe.OutputBase64, got.Config.OutputType)
	assert.Empty(t, got.Config.IVGenerator)
	assert.Equal(t, pbe.RandomIVGenerator, got.Config.IVPolicy())
}

func TestResolve_SecondYAMLDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yml", "spring:\n  profiles: dev\n---\njasypt:\n  encryptor:\n    password: second\n")

	got, err := NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Config.Password)
}

func TestResolve_Properties(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.properties", `
# comment
db.url=jdbc:h2:mem:test
jasypt.encryptor.password=${JASYPT_PASSWORD:fallback}
jasypt.encryptor.algorithm=PBEWithHMACSHA256AndAES_128
`)

	got, err := NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.Config.Password)
	assert.Equal(t, "PBEWithHMACSHA256AndAES_128", got.Config.Algorithm)
}

func TestResolve_SiblingChain(t *testing.T) {
	t.Run("yaml falls back to application.yml", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.yml", "token: ENC(abc)\n")
		sibling := writeFile(t, dir, "application.yml", "jasypt:\n  encryptor:\n    password: secret\n")

		got, err := NewResolver(nil, MapEnv{}).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, sibling, got.Source)
		assert.Equal(t, "secret", got.Config.Password)
	})

	t.Run("yaml falls back to application.yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.yml", "token: ENC(abc)\n")
		sibling := writeFile(t, dir, "application.yaml", "jasypt:\n  encryptor:\n    password: secret\n")

		got, err := NewResolver(nil, MapEnv{}).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, sibling, got.Source)
	})

	t.Run("properties falls back to application.properties then application.yml", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.properties", "token=ENC(abc)\n")
		writeFile(t, dir, "application.properties", "server.port=8080\n")
		sibling := writeFile(t, dir, "application.yml", "jasypt:\n  encryptor:\n    password: from-yml\n")

		got, err := NewResolver(nil, MapEnv{}).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, sibling, got.Source)
		assert.Equal(t, "from-yml", got.Config.Password)
	})

	t.Run("own section wins over sibling", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.yml", "jasypt:\n  encryptor:\n    password: mine\n")
		writeFile(t, dir, "application.yml", "jasypt:\n  encryptor:\n    password: theirs\n")

		got, err := NewResolver(nil, MapEnv{}).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, "mine", got.Config.Password)
		assert.Equal(t, path, got.Source)
	})

	t.Run("sources are not merged", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "app.yml", "jasypt:\n  encryptor:\n    algorithm: PBEWithMD5AndDES\n")
		writeFile(t, dir, "application.yml", "jasypt:\n  encryptor:\n    password: theirs\n")

		got, err := NewResolver(nil, MapEnv{}).Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, pbe.DefaultAlgorithm, got.Config.Algorithm)
	})

	t.Run("application.yml resolves itself once", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "application.yml", "name: app\n")

		assert.Equal(t, []string{path, filepath.Join(dir, "application.yaml")}, Candidates(path, document.YAML))

		_, err := NewResolver(nil, MapEnv{}).Resolve(path)
		assert.ErrorIs(t, err, kerrors.ErrConfigNotFound)
	})
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"no section anywhere", "app.yml", "server:\n  port: 8080\n", kerrors.ErrConfigNotFound},
		{"empty password", "app.yml", "jasypt:\n  encryptor:\n    password: \"\"\n", kerrors.ErrConfig},
		{"null password", "app.yml", "jasypt:\n  encryptor:\n    password:\n", kerrors.ErrConfig},
		{"empty properties password", "app.properties", "jasypt.encryptor.password=\n", kerrors.ErrConfig},
		{"unset env without default", "app.yml", "jasypt:\n  encryptor:\n    password: ${JASYPTOR_TEST_UNSET}\n", kerrors.ErrEnvUnset},
		{"non-numeric iterations", "app.yml", "jasypt:\n  encryptor:\n    password: x\n    key-obtention-iterations: many\n", kerrors.ErrConfig},
		{"malformed yaml", "app.yml", "jasypt: [unclosed\n", kerrors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			_, err := NewResolver(nil, MapEnv{}).Resolve(path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_UnsupportedAndMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := NewResolver(nil, MapEnv{}).Resolve(writeFile(t, dir, "app.json", "{}"))
	assert.ErrorIs(t, err, kerrors.ErrUnsupportedFileType)

	_, err = NewResolver(nil, MapEnv{}).Resolve(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, kerrors.ErrFileNotFound)
}

func TestResolve_PasswordFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yml", "jasypt:\n  encryptor:\n    password: ${DB_PASS:fallback}\n")

	got, err := NewResolver(nil, MapEnv{"DB_PASS": "from-env"}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Config.Password)

	got, err = NewResolver(nil, MapEnv{}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.Config.Password)

	_, err = NewResolver(nil, MapEnv{"DB_PASS": ""}).Resolve(path)
	assert.ErrorIs(t, err, kerrors.ErrConfig)
}

type recordingLoader struct {
	document.FS
	loaded []string
}

func (l *recordingLoader) Load(path string) (*document.Document, error) {
	l.loaded = append(l.loaded, path)
	return l.FS.Load(path)
}

func TestResolve_UsesInjectedLoader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yml", "a: b\n")
	writeFile(t, dir, "application.yml", "jasypt:\n  encryptor:\n    password: secret\n")

	loader := &recordingLoader{}
	_, err := NewResolver(loader, MapEnv{}).Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path, filepath.Join(dir, "application.yml")}, loader.loaded)
}
