package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetFile pairs a parsed question set with its on-disk source.
type SetFile struct {
	Set  QuestionSet
	Path string
}

// setDocument is the authoring format: relations are listed on the
// question that declares them, the way question sets are usually written.
type setDocument struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Questions   []questionDocument `yaml:"questions"`
}

type questionDocument struct {
	ID          string   `yaml:"id"`
	Text        string   `yaml:"text"`
	Contradicts []string `yaml:"contradicts,omitempty"`
	Requires    []string `yaml:"requires,omitempty"`
}

func (doc setDocument) toSet() QuestionSet {
	set := QuestionSet{
		Name:        doc.Name,
		Description: doc.Description,
		Questions:   make([]Question, 0, len(doc.Questions)),
	}
	for _, q := range doc.Questions {
		set.Questions = append(set.Questions, Question{ID: q.ID, Text: q.Text})
		for _, target := range q.Contradicts {
			set.Relations = append(set.Relations, Relation{From: q.ID, To: target, Kind: Contradicts})
		}
		for _, target := range q.Requires {
			set.Relations = append(set.Relations, Relation{From: q.ID, To: target, Kind: Requires})
		}
	}
	return set
}

// ParseSetYAML decodes, normalizes and validates a single question set.
func ParseSetYAML(data []byte) (QuestionSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return QuestionSet{}, fmt.Errorf("catalog: set payload is empty")
	}
	var doc setDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return QuestionSet{}, fmt.Errorf("catalog: decode set: %w", err)
	}
	return doc.toSet().Normalized()
}

// LoadSetFile reads a YAML question set from disk.
func LoadSetFile(path string) (SetFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SetFile{}, fmt.Errorf("catalog: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SetFile{}, fmt.Errorf("catalog: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SetFile{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	set, err := ParseSetYAML(data)
	if err != nil {
		return SetFile{}, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return SetFile{Set: set, Path: filepath.Clean(path)}, nil
}

// LoadSetDir scans dir for *.yaml / *.yml question sets. A missing
// directory means there are no extra sets.
func LoadSetDir(dir string) ([]SetFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: read %s: %w", trimmed, err)
	}
	var files []SetFile
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		file, err := LoadSetFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
