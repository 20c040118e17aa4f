package answers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/consistency"
)

// Record is one stored answer. The question text is copied in when the
// answer is given and is kept as-is even if the catalog text changes later.
type Record struct {
	QuestionID string
	Text       string
	Answer     bool
}

// MarshalJSON encodes the record as the two-element array [text, answer].
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{r.Text, r.Answer}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes the [text, answer] form. The id comes from the
// enclosing object key and is filled in by Records.
func (r *Record) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("answers: record must be [text, answer]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("answers: record has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Text); err != nil {
		return fmt.Errorf("answers: record text: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Answer); err != nil {
		return fmt.Errorf("answers: record answer: %w", err)
	}
	return nil
}

// Records maps question ids to stored answers for one question set.
type Records map[string]Record

// UnmarshalJSON decodes the persisted object and stamps each record with
// its key.
func (r *Records) UnmarshalJSON(data []byte) error {
	var raw map[string]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Records, len(raw))
	for id, rec := range raw {
		rec.QuestionID = id
		out[id] = rec
	}
	*r = out
	return nil
}

// Put stores an answer, copying the question text into the record.
func (r Records) Put(q catalog.Question, answer bool) {
	r[q.ID] = Record{QuestionID: q.ID, Text: q.Text, Answer: answer}
}

// Bools projects the records onto the id -> answer form the consistency
// engine consumes.
func (r Records) Bools() consistency.Answers {
	out := make(consistency.Answers, len(r))
	for id, rec := range r {
		out[id] = rec.Answer
	}
	return out
}

// Clone returns an independent copy.
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for id, rec := range r {
		out[id] = rec
	}
	return out
}

// Prune drops records whose question no longer exists in set. It returns
// the kept records and the sorted ids that were dropped.
func (r Records) Prune(set catalog.QuestionSet) (Records, []string) {
	kept := make(Records, len(r))
	var dropped []string
	for id, rec := range r {
		if set.Has(id) {
			kept[id] = rec
			continue
		}
		dropped = append(dropped, id)
	}
	sort.Strings(dropped)
	return kept, dropped
}
