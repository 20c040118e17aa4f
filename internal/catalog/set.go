package catalog

import (
	"fmt"
	"strings"
)

// RelationKind names how two questions constrain each other.
type RelationKind string

const (
	// Contradicts marks two statements that cannot both be agreed with.
	// The relation is symmetric even though it is stored with a direction.
	Contradicts RelationKind = "contradicts"
	// Requires means agreeing with From obliges agreeing with To.
	Requires RelationKind = "requires"
)

// Valid reports whether the kind is one the engine understands.
func (k RelationKind) Valid() bool {
	return k == Contradicts || k == Requires
}

// Question is a single agree/disagree statement.
type Question struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Relation is a directed edge between two questions of the same set.
type Relation struct {
	From string       `json:"from" yaml:"from"`
	To   string       `json:"to" yaml:"to"`
	Kind RelationKind `json:"kind" yaml:"kind"`
}

func (r Relation) String() string {
	return fmt.Sprintf("%s %s %s", r.From, r.Kind, r.To)
}

// SelfReferential reports whether both endpoints are the same question.
func (r Relation) SelfReferential() bool {
	return r.From == r.To
}

// QuestionSet is a named, immutable collection of questions and the
// relations between them. The name doubles as the storage namespace.
type QuestionSet struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
	Relations   []Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Clone returns a deep copy of the set.
func (s QuestionSet) Clone() QuestionSet {
	clone := QuestionSet{
		Name:        s.Name,
		Description: s.Description,
	}
	if len(s.Questions) > 0 {
		clone.Questions = make([]Question, len(s.Questions))
		copy(clone.Questions, s.Questions)
	}
	if len(s.Relations) > 0 {
		clone.Relations = make([]Relation, len(s.Relations))
		copy(clone.Relations, s.Relations)
	}
	return clone
}

// Len returns the number of questions.
func (s QuestionSet) Len() int {
	return len(s.Questions)
}

// Index returns the position of the question with the given id, or -1.
func (s QuestionSet) Index(id string) int {
	for i, q := range s.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether id belongs to the set.
func (s QuestionSet) Has(id string) bool {
	return s.Index(id) >= 0
}

// Question looks up a question by id.
func (s QuestionSet) Question(id string) (Question, bool) {
	idx := s.Index(id)
	if idx < 0 {
		return Question{}, false
	}
	return s.Questions[idx], true
}

// Label returns the 1-based display label ("Q3") for a question id.
func (s QuestionSet) Label(id string) string {
	idx := s.Index(id)
	if idx < 0 {
		return id
	}
	return fmt.Sprintf("Q%d", idx+1)
}

// RelationsOf returns the relations of the given kind in declaration order.
func (s QuestionSet) RelationsOf(kind RelationKind) []Relation {
	var out []Relation
	for _, rel := range s.Relations {
		if rel.Kind == kind {
			out = append(out, rel)
		}
	}
	return out
}

// Validate ensures the set is self-consistent. Relations must only
// reference questions declared in the same set.
func (s QuestionSet) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("catalog: set name is required")
	}
	if len(s.Questions) == 0 {
		return fmt.Errorf("catalog %s: at least one question is required", s.Name)
	}
	seen := make(map[string]struct{}, len(s.Questions))
	for idx, q := range s.Questions {
		if q.ID == "" {
			return fmt.Errorf("catalog %s question[%d]: id is required", s.Name, idx)
		}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("catalog %s question %s: text is required", s.Name, q.ID)
		}
		if _, exists := seen[q.ID]; exists {
			return fmt.Errorf("catalog %s: duplicate question id %s", s.Name, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	for idx, rel := range s.Relations {
		if !rel.Kind.Valid() {
			return fmt.Errorf("catalog %s relation[%d]: unknown kind %q", s.Name, idx, rel.Kind)
		}
		if _, ok := seen[rel.From]; !ok {
			return fmt.Errorf("catalog %s: relation %s references unknown question %s", s.Name, rel, rel.From)
		}
		if _, ok := seen[rel.To]; !ok {
			return fmt.Errorf("catalog %s: relation %s references unknown question %s", s.Name, rel, rel.To)
		}
	}
	return nil
}

// Normalized clones the set, trims identifiers, collapses duplicate
// relations and validates the result. A contradiction declared in both
// directions is kept once, in the orientation that was declared first.
func (s QuestionSet) Normalized() (QuestionSet, error) {
	clone := s.Clone()
	clone.Name = strings.TrimSpace(clone.Name)
	clone.Description = strings.TrimSpace(clone.Description)
	for i := range clone.Questions {
		clone.Questions[i].ID = strings.TrimSpace(clone.Questions[i].ID)
		clone.Questions[i].Text = strings.TrimSpace(clone.Questions[i].Text)
	}
	clone.Relations = dedupeRelations(clone.Relations)
	if err := clone.Validate(); err != nil {
		return QuestionSet{}, err
	}
	return clone, nil
}

func dedupeRelations(relations []Relation) []Relation {
	if len(relations) == 0 {
		return nil
	}
	seen := make(map[Relation]struct{}, len(relations))
	out := make([]Relation, 0, len(relations))
	for _, rel := range relations {
		rel.From = strings.TrimSpace(rel.From)
		rel.To = strings.TrimSpace(rel.To)
		rel.Kind = RelationKind(strings.ToLower(strings.TrimSpace(string(rel.Kind))))
		key := rel
		if rel.Kind == Contradicts && key.To < key.From {
			key.From, key.To = key.To, key.From
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rel)
	}
	return out
}
