// Package survey drives one question set at a time: it owns the live answer
// records, persists them after every change and runs the contradiction
// resolution loop. Nothing here knows about the terminal.
package survey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kingrea/truthweb/internal/answers"
	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/consistency"
	"github.com/kingrea/truthweb/internal/logbook"
)

var (
	// ErrComplete is returned when recording an answer after the last question.
	ErrComplete = errors.New("survey: all questions answered")
	// ErrUnknownQuestion is returned for ids outside the active set.
	ErrUnknownQuestion = errors.New("survey: unknown question")
)

// Progress summarizes how far a set has been answered.
type Progress string

const (
	ProgressNotStarted Progress = "not_started"
	ProgressInProgress Progress = "in_progress"
	ProgressCompleted  Progress = "completed"
)

// ProgressOf classifies records against set. Orphaned records do not count.
func ProgressOf(set catalog.QuestionSet, records answers.Records) Progress {
	kept, _ := records.Prune(set)
	switch {
	case len(kept) == 0:
		return ProgressNotStarted
	case len(kept) >= set.Len():
		return ProgressCompleted
	default:
		return ProgressInProgress
	}
}

// MenuLabel renders the set name the way the home screen lists it.
func (p Progress) MenuLabel(name string) string {
	switch p {
	case ProgressInProgress:
		return name + " (Continue)"
	case ProgressCompleted:
		return name + " (Review)"
	default:
		return name
	}
}

// Option customizes a Session.
type Option func(*Session)

// WithLogbook records session activity in lb.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(s *Session) {
		s.log = lb
	}
}

// Session is the single owner of a question set's answers while it is open.
type Session struct {
	id      string
	set     catalog.QuestionSet
	store   answers.Store
	records answers.Records
	current int
	log     *logbook.Logbook
}

// Open loads the stored answers for set and positions the session on the
// first unanswered question. Records for questions the set no longer has
// are dropped.
func Open(set catalog.QuestionSet, store answers.Store, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("survey: answer store is required")
	}
	s := &Session{
		id:    uuid.NewString(),
		set:   set,
		store: store,
	}
	for _, opt := range opts {
		opt(s)
	}
	records, err := store.Load(set.Name)
	if err != nil {
		return nil, fmt.Errorf("survey: load %s: %w", set.Name, err)
	}
	kept, dropped := records.Prune(set)
	if len(dropped) > 0 {
		s.log.Warn("Session %s · ignoring answers for unknown questions in %s: %s", s.short(), set.Name, strings.Join(dropped, ", "))
	}
	s.records = kept
	s.current = s.nextUnanswered()
	s.log.Info("Session %s · opened %s (%d/%d answered)", s.short(), set.Name, len(kept), set.Len())
	return s, nil
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) short() string {
	if len(s.id) > 8 {
		return s.id[:8]
	}
	return s.id
}

// Set returns the active question set.
func (s *Session) Set() catalog.QuestionSet {
	return s.set
}

func (s *Session) nextUnanswered() int {
	for i, q := range s.set.Questions {
		if _, ok := s.records[q.ID]; !ok {
			return i
		}
	}
	return s.set.Len()
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (catalog.Question, bool) {
	if s.Complete() {
		return catalog.Question{}, false
	}
	return s.set.Questions[s.current], true
}

// Position returns the zero-based index of the current question and the
// number of questions in the set.
func (s *Session) Position() (int, int) {
	return s.current, s.set.Len()
}

// Complete reports whether every question has been answered.
func (s *Session) Complete() bool {
	return s.current >= s.set.Len()
}

// Answered returns how many questions have an answer.
func (s *Session) Answered() int {
	return len(s.records)
}

// Progress classifies the session's answers.
func (s *Session) Progress() Progress {
	return ProgressOf(s.set, s.records)
}

// Record answers the current question, persists, and advances to the next
// unanswered question.
func (s *Session) Record(value bool) (catalog.Question, error) {
	q, ok := s.Current()
	if !ok {
		return catalog.Question{}, ErrComplete
	}
	if err := s.put(q, value); err != nil {
		return catalog.Question{}, err
	}
	s.current = s.nextUnanswered()
	return q, nil
}

// SetAnswer revises (or gives) the answer to a specific question.
func (s *Session) SetAnswer(id string, value bool) error {
	q, ok := s.set.Question(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if err := s.put(q, value); err != nil {
		return err
	}
	s.current = s.nextUnanswered()
	return nil
}

func (s *Session) put(q catalog.Question, value bool) error {
	previous, had := s.records[q.ID]
	s.records.Put(q, value)
	if err := s.store.Save(s.set.Name, s.records); err != nil {
		if had {
			s.records[q.ID] = previous
		} else {
			delete(s.records, q.ID)
		}
		s.log.Error("Session %s · save %s failed: %v", s.short(), s.set.Name, err)
		return fmt.Errorf("survey: save %s: %w", s.set.Name, err)
	}
	return nil
}

// Restart clears every answer and persists the empty set.
func (s *Session) Restart() error {
	if err := s.store.Clear(s.set.Name); err != nil {
		s.log.Error("Session %s · clear %s failed: %v", s.short(), s.set.Name, err)
		return fmt.Errorf("survey: clear %s: %w", s.set.Name, err)
	}
	s.records = answers.Records{}
	s.current = 0
	s.log.Info("Session %s · restarted %s", s.short(), s.set.Name)
	return nil
}

// Records returns a copy of the stored answers.
func (s *Session) Records() answers.Records {
	return s.records.Clone()
}

// Answer returns the stored answer for id.
func (s *Session) Answer(id string) (bool, bool) {
	rec, ok := s.records[id]
	return rec.Answer, ok
}

// Answers returns the id -> answer view used by the consistency engine.
func (s *Session) Answers() consistency.Answers {
	return s.records.Bools()
}

// Evaluate computes the consistency state of the current answers.
func (s *Session) Evaluate() consistency.State {
	return consistency.Evaluate(s.set, s.Answers())
}

// Conflicts returns the questions that currently contradict id.
func (s *Session) Conflicts(id string) []string {
	return consistency.ConflictsInvolving(s.set, id, s.Answers())
}
