// Package answers persists survey answers, one JSON document per question
// set:
//
//	{
//	  "q1": ["The best superhero is always the most powerful superhero", true]
//	}
//
// Unreadable documents are treated as "no answers yet" so a damaged file
// never stops the survey from running.
package answers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/truthweb/internal/logbook"
)

// Store loads and saves the answers of a question set.
type Store interface {
	Load(set string) (Records, error)
	Save(set string, records Records) error
	Clear(set string) error
}

// FileStore keeps answers in responses_<set>.json files under dir.
type FileStore struct {
	dir string
	log *logbook.Logbook
}

// FileStoreOption customizes a FileStore during construction.
type FileStoreOption func(*FileStore)

// WithLogbook routes fail-soft warnings to lb.
func WithLogbook(lb *logbook.Logbook) FileStoreOption {
	return func(s *FileStore) {
		s.log = lb
	}
}

// NewFileStore builds a store rooted at dir.
func NewFileStore(dir string, opts ...FileStoreOption) *FileStore {
	store := &FileStore{dir: dir}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Dir returns the directory holding the answer files.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the answer file for a question set.
func (s *FileStore) Path(set string) string {
	return filepath.Join(s.dir, FileName(set))
}

// FileName returns responses_<set>.json. Bytes outside [A-Za-z0-9._-] are
// percent-encoded, so distinct set names never share a file.
func FileName(set string) string {
	var b strings.Builder
	for i := 0; i < len(set); i++ {
		c := set[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return "responses_" + b.String() + ".json"
}

// Load reads the answers for set. A missing file yields empty records; a
// malformed one is logged and also yields empty records.
func (s *FileStore) Load(set string) (Records, error) {
	path := s.Path(set)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Records{}, nil
		}
		s.log.Warn("Answers · %s unreadable, starting empty: %v", set, err)
		return Records{}, nil
	}
	records, err := decode(data)
	if err != nil {
		s.log.Warn("Answers · %s is corrupt, starting empty: %v", set, err)
		return Records{}, nil
	}
	return records, nil
}

func decode(data []byte) (Records, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Records{}, nil
	}
	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return Records{}, nil
	}
	return records, nil
}

// Save replaces the answers for set. The document is written to a temp file
// in the same directory and renamed into place.
func (s *FileStore) Save(set string, records Records) error {
	if records == nil {
		records = Records{}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("answers: ensure dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("answers: encode %s: %w", set, err)
	}
	tmp, err := os.CreateTemp(s.dir, "responses_*.json.tmp")
	if err != nil {
		return fmt.Errorf("answers: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("answers: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("answers: write %s: %w", set, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("answers: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(set)); err != nil {
		return fmt.Errorf("answers: replace %s: %w", s.Path(set), err)
	}
	return nil
}

// Clear persists an empty answer document for set.
func (s *FileStore) Clear(set string) error {
	return s.Save(set, Records{})
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	sets map[string]Records
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sets: map[string]Records{}}
}

// Load returns a copy of the stored records.
func (m *MemoryStore) Load(set string) (Records, error) {
	return m.sets[set].Clone(), nil
}

// Save stores a copy of records.
func (m *MemoryStore) Save(set string, records Records) error {
	m.sets[set] = records.Clone()
	return nil
}

// Clear empties the records of set.
func (m *MemoryStore) Clear(set string) error {
	m.sets[set] = Records{}
	return nil
}
