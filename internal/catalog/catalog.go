package catalog

import (
	"embed"
	"fmt"
	"path"
)

//go:embed sets/*.yaml
var builtinFS embed.FS

// builtinFiles fixes the order the bundled sets are offered in.
var builtinFiles = []string{
	"sets/superheroes.yaml",
	"sets/food.yaml",
}

// NotFoundError is returned when a question set name is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: question set %q not found", e.Name)
}

// Catalog is the read-only registry of question sets.
type Catalog struct {
	sets  map[string]QuestionSet
	names []string
}

// NewCatalog validates every set and returns a catalog holding them in the
// given order. Authoring defects (relations to unknown questions, duplicate
// ids or names) fail here, never during evaluation.
func NewCatalog(sets ...QuestionSet) (*Catalog, error) {
	c := &Catalog{sets: make(map[string]QuestionSet, len(sets))}
	for _, set := range sets {
		if err := c.add(set); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(set QuestionSet) error {
	normalized, err := set.Normalized()
	if err != nil {
		return err
	}
	if _, exists := c.sets[normalized.Name]; exists {
		return fmt.Errorf("catalog: duplicate question set %s", normalized.Name)
	}
	c.sets[normalized.Name] = normalized
	c.names = append(c.names, normalized.Name)
	return nil
}

// Builtin returns a catalog holding only the bundled question sets.
func Builtin() (*Catalog, error) {
	sets, err := builtinSets()
	if err != nil {
		return nil, err
	}
	return NewCatalog(sets...)
}

// Load returns the bundled sets followed by any sets found in dir.
func Load(dir string) (*Catalog, error) {
	sets, err := builtinSets()
	if err != nil {
		return nil, err
	}
	c, err := NewCatalog(sets...)
	if err != nil {
		return nil, err
	}
	files, err := LoadSetDir(dir)
	if err != nil {
		return nil, err
	}
	origin := map[string]string{}
	for _, name := range c.names {
		origin[name] = "built-in"
	}
	for _, file := range files {
		if existing, ok := origin[file.Set.Name]; ok {
			return nil, fmt.Errorf("catalog: duplicate question set %s (%s and %s)", file.Set.Name, existing, file.Path)
		}
		origin[file.Set.Name] = file.Path
		if err := c.add(file.Set); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", file.Path, err)
		}
	}
	return c, nil
}

func builtinSets() ([]QuestionSet, error) {
	sets := make([]QuestionSet, 0, len(builtinFiles))
	for _, name := range builtinFiles {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read built-in %s: %w", path.Base(name), err)
		}
		set, err := ParseSetYAML(data)
		if err != nil {
			return nil, fmt.Errorf("catalog: built-in %s: %w", path.Base(name), err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Get returns a copy of the named set or a *NotFoundError.
func (c *Catalog) Get(name string) (QuestionSet, error) {
	if c != nil {
		if set, ok := c.sets[name]; ok {
			return set.Clone(), nil
		}
	}
	return QuestionSet{}, &NotFoundError{Name: name}
}

// Names lists the registered set names in registration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns how many sets are registered.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
