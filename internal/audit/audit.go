package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry is one line of the audit log.
type Entry struct {
	Timestamp string `json:"ts"`
	RunID     string `json:"run_id"`
	Operation string `json:"op"`

	Paths        []string `json:"paths,omitempty"` // As given on the command line.
	Files        []string `json:"files,omitempty"` // Files that were rewritten.
	FilesCount   int      `json:"files_count"`
	ChangedCount int      `json:"changed_count"`
	FailedCount  int      `json:"failed_count,omitempty"`
}

// NewEntry returns an entry for op with a fresh run id.
func NewEntry(op string) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Operation: op,
	}
}

// Log appends entry to the log at path. Failures are ignored: an operation
// never fails because its audit entry could not be written.
func Log(path string, entry Entry) {
	if path == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	if entry.RunID == "" {
		entry.RunID = uuid.NewString()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads the log at path. A missing log has no entries.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines. Blank and malformed lines are skipped, so
// a partially written last line does not hide the rest of the log.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
