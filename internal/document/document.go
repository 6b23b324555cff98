// Package document recognises the configuration files jasyptor can rewrite
// and reads and writes them through small capability interfaces, so an
// editor-integrated caller can flush unsaved buffers before a read and reload
// its view after a write.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/utils"
)

// Kind is the format of a configuration document.
type Kind int

const (
	Unknown Kind = iota
	YAML
	Properties
)

func (k Kind) String() string {
	switch k {
	case YAML:
		return "yaml"
	case Properties:
		return "properties"
	default:
		return "unknown"
	}
}

// KindOf returns the document kind for path based on its extension
// (case-insensitive). Unsupported extensions return ErrUnsupportedFileType.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yml", "yaml":
		return YAML, nil
	case "properties":
		return Properties, nil
	}
	return Unknown, fmt.Errorf("%s: %w", path, kerrors.ErrUnsupportedFileType)
}

// Supported reports whether path has a yml, yaml or properties extension.
func Supported(path string) bool {
	_, err := KindOf(path)
	return err == nil
}

// Document is the saved content of a configuration file.
type Document struct {
	Path string
	Kind Kind
	Raw  []byte
}

// Text returns the document content as a string.
func (d *Document) Text() string {
	return string(d.Raw)
}

// Loader reads a document fully, as currently saved.
type Loader interface {
	Load(path string) (*Document, error)
}

// Writer replaces a document's content.
type Writer interface {
	Write(path string, data []byte) error
}

// FS reads and writes documents on the local filesystem. Writes are atomic.
type FS struct{}

// Load implements Loader. Content must be UTF-8.
func (FS) Load(path string) (*Document, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%s: %w: content is not valid UTF-8", path, kerrors.ErrProcessing)
	}
	return &Document{Path: path, Kind: kind, Raw: raw}, nil
}

// Write implements Writer.
func (FS) Write(path string, data []byte) error {
	return utils.WriteFileAtomic(path, data)
}
